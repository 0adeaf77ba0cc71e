package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/sirupsen/logrus"
)

// Default resource limits for the containerized disassembler, mirroring the
// ceilings used for other untrusted batch tool invocations in this project.
const (
	DefaultDockerMemoryLimit = 512 * 1024 * 1024
	DefaultDockerCPULimit    = 1.0
	DefaultDockerTimeout     = 2 * time.Minute
)

// Docker-specific sentinel errors, kept distinct from the package-level
// ones so callers can tell a Docker-unavailable environment apart from an
// ordinary disassembly failure.
var (
	ErrDockerNotAvailable = errors.New("archive: docker is not available")
	ErrImagePullFailed    = errors.New("archive: failed to pull docker image")
	ErrContainerFailed    = errors.New("archive: container execution failed")
	ErrDockerTimeout      = errors.New("archive: container execution timed out")
)

// DockerDisassembler runs a JDK disassembler binary inside a container
// rather than requiring the local machine to have one installed. It
// implements Disassembler.
type DockerDisassembler struct {
	client      *client.Client
	Image       string
	imageCached map[string]bool
	Log         *logrus.Logger

	MemoryLimit int64
	CPULimit    float64
	Timeout     time.Duration
}

// NewDockerDisassembler connects to the local Docker daemon and verifies it
// is reachable before returning.
func NewDockerDisassembler(image string, log *logrus.Logger) (*DockerDisassembler, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDockerNotAvailable, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDockerNotAvailable, err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DockerDisassembler{
		client:      cli,
		Image:       image,
		imageCached: make(map[string]bool),
		Log:         log,
		MemoryLimit: DefaultDockerMemoryLimit,
		CPULimit:    DefaultDockerCPULimit,
		Timeout:     DefaultDockerTimeout,
	}, nil
}

// Disassemble copies classFiles into a scoped scratch directory, runs javap
// inside a container against that directory, and returns the combined
// stdout.
func (d *DockerDisassembler) Disassemble(ctx context.Context, classFiles []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	if err := d.pullImage(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrImagePullFailed, err)
	}

	inputDir, err := os.MkdirTemp("", "japicc-docker-input-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(inputDir)

	names := make([]string, 0, len(classFiles))
	for _, src := range classFiles {
		name := filepath.Base(src)
		dst := filepath.Join(inputDir, name)
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("failed staging %s: %w", src, err)
		}
		names = append(names, "/work/"+name)
	}

	cmd := append([]string{"javap", "-c", "-p", "-v"}, names...)
	containerID, err := d.createContainer(ctx, cmd, inputDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrContainerFailed, err)
	}
	defer d.client.ContainerRemove(context.Background(), containerID, container.RemoveOptions{Force: true})

	if err := d.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrContainerFailed, err)
	}

	statusCh, errCh := d.client.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrContainerFailed, err)
		}
	case <-statusCh:
	case <-ctx.Done():
		return "", ErrDockerTimeout
	}

	return d.collectLogs(ctx, containerID)
}

func (d *DockerDisassembler) pullImage(ctx context.Context) error {
	if d.imageCached[d.Image] {
		return nil
	}
	reader, err := d.client.ImagePull(ctx, d.Image, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return err
	}
	d.imageCached[d.Image] = true
	return nil
}

func (d *DockerDisassembler) createContainer(ctx context.Context, cmd []string, inputDir string) (string, error) {
	resp, err := d.client.ContainerCreate(ctx, &container.Config{
		Image:      d.Image,
		Cmd:        cmd,
		WorkingDir: "/work",
	}, &container.HostConfig{
		Binds:     []string{inputDir + ":/work:ro"},
		Resources: container.Resources{Memory: d.MemoryLimit, NanoCPUs: int64(d.CPULimit * 1e9)},
	}, nil, nil, "")
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (d *DockerDisassembler) collectLogs(ctx context.Context, containerID string) (string, error) {
	out, err := d.client.ContainerLogs(ctx, containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", err
	}
	defer out.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, out); err != nil {
		return "", err
	}
	if stderr.Len() > 0 {
		d.Log.WithField("stderr", stderr.String()).Warn("archive: docker disassembler stderr output")
	}
	return stdout.String(), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

