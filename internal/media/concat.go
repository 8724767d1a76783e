package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Concat merges the input files into one output via the concat demuxer. The
// inputs are expected to share codec parameters (they come from the same
// source), so stream copy is the default; reencode forces a full encode.
func (e *Executor) Concat(ctx context.Context, inputs []string, output string, reencode bool) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}

	listFile, err := writeConcatList(inputs)
	if err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
	}
	if reencode {
		args = append(args,
			"-c:v", defaultVideoCodec,
			"-c:a", defaultAudioCodec,
			"-crf", defaultCRF,
		)
	} else {
		args = append(args, "-c", "copy")
	}
	args = append(args, output)

	if _, err := e.runFFmpeg(ctx, args...); err != nil {
		return fmt.Errorf("concat %d clips: %w", len(inputs), err)
	}
	return nil
}

func writeConcatList(inputs []string) (string, error) {
	f, err := os.CreateTemp("", "vdsm-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			os.Remove(f.Name())
			return "", err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", abs); err != nil {
			os.Remove(f.Name())
			return "", err
		}
	}
	return f.Name(), nil
}
