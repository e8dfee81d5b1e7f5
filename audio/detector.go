package audio

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
)

// Backend describes a CLI tool that plays raw s16le stereo PCM from stdin
type Backend struct {
	Name string
	Path string
	Args []string
}

type candidate struct {
	name string
	args func(rate string) []string
}

// Priority order: pacat > pw-cat > aplay > play (sox)
var candidates = []candidate{
	{"pacat", func(rate string) []string {
		return []string{"--raw", "--format=s16le", "--rate=" + rate, "--channels=2", "--latency-msec=50", "--playback"}
	}},
	{"pw-cat", func(rate string) []string {
		return []string{"--playback", "--format=s16", "--rate=" + rate, "--channels=2", "--latency=50ms", "-"}
	}},
	{"aplay", func(rate string) []string {
		return []string{"-t", "raw", "-f", "S16_LE", "-r", rate, "-c", "2", "-q"}
	}},
	{"play", func(rate string) []string {
		return []string{"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", rate, "-", "-d", "-q"}
	}},
}

// DetectBackend finds the first available playback tool on PATH
func DetectBackend(sampleRate int) (*Backend, error) {
	return detectWith(exec.LookPath, sampleRate)
}

func detectWith(lookPath func(string) (string, error), sampleRate int) (*Backend, error) {
	rate := strconv.Itoa(sampleRate)
	for _, c := range candidates {
		if path, err := lookPath(c.name); err == nil {
			return &Backend{Name: c.name, Path: path, Args: c.args(rate)}, nil
		}
	}
	return nil, ErrNoAudioBackend
}

// Pipe is a running backend process fed through its stdin
type Pipe struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	closeOnce sync.Once
	closeErr  error
}

// Start launches the backend and returns its stdin
func (b *Backend) Start() (*Pipe, error) {
	cmd := exec.Command(b.Path, b.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("audio %s stdin: %w", b.Name, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("audio %s start: %w", b.Name, err)
	}
	return &Pipe{cmd: cmd, stdin: stdin}, nil
}

func (p *Pipe) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Close closes stdin and kills the process if it has not exited; later calls return the first result
func (p *Pipe) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.stdin.Close()
		if p.cmd.Process != nil {
			p.cmd.Process.Kill()
		}
		p.cmd.Wait()
	})
	return p.closeErr
}
