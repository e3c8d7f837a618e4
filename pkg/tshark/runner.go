// Package tshark drives the external capture decoder. The decoding itself is
// entirely tshark's job; this package only spawns the process and hands its
// JSON output to the ingest layer.
package tshark

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// fields is the set of per-frame fields requested from tshark. It matches
// what ingest.RecordsFromTsharkJSON expects to find under _source.layers.
var fields = []string{
	"frame.time_epoch",
	"eth.src",
	"eth.dst",
	"eth.type",
	"ip.src",
	"ip.dst",
	"ip.proto",
	"tcp.srcport",
	"tcp.dstport",
	"tcp.seq",
	"tcp.ack",
	"tcp.flags",
	"tcp.window_size",
}

// Runner invokes tshark against capture files.
type Runner struct {
	binPath string
}

// NewRunner returns a Runner for the given tshark binary, verifying that the
// binary is actually runnable. An empty path means "tshark" on $PATH.
func NewRunner(binPath string) (*Runner, error) {
	if binPath == "" {
		binPath = "tshark"
	}
	if err := exec.Command(binPath, "--version").Run(); err != nil {
		return nil, fmt.Errorf("tshark not available at %q: %w", binPath, err)
	}
	return &Runner{binPath: binPath}, nil
}

// Decode runs tshark over one capture file and returns its raw JSON output,
// restricted to TCP frames.
func (r *Runner) Decode(ctx context.Context, capturePath string) ([]byte, error) {
	args := []string{"-r", capturePath, "-T", "json"}
	for _, f := range fields {
		args = append(args, "-e", f)
	}
	args = append(args, "-J", "tcp")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tshark failed on %q: %w: %s", capturePath, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
