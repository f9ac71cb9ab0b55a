// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/extract-documents/internal/container"
	"github.com/pdiddy/extract-documents/pkg/types"
)

// ContainerPartitioner partitions documents by piping them through a
// partitioning image. The image reads the document on stdin and writes a
// JSON element array to stdout.
type ContainerPartitioner struct {
	runtime container.Runtime
	image   string
}

// NewContainerPartitioner creates a partitioner that runs image on rt. It
// verifies that the image exists locally before returning.
func NewContainerPartitioner(rt container.Runtime, image string) (*ContainerPartitioner, error) {
	if image == "" {
		image = types.DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("partition image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerPartitioner{runtime: rt, image: image}, nil
}

// Partition streams the file at path into the container and decodes its
// output.
func (c *ContainerPartitioner) Partition(ctx context.Context, path string, opts types.PartitionOptions) ([]types.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	start := time.Now()
	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, containerArgs(filepath.Base(path), opts), f, &out); err != nil {
		var runErr *container.RunError
		if errors.As(err, &runErr) && !runErr.RuntimeFailure() && isUnsupported(runErr.Stderr) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("partitioning %s in container: %w", filepath.Base(path), err)
	}

	elements, err := decodeElements(&out)
	if err != nil {
		return nil, fmt.Errorf("partitioning %s in container: %w", filepath.Base(path), err)
	}

	log.Debug().
		Str("file", filepath.Base(path)).
		Str("runtime", c.runtime.Name()).
		Int("elements", len(elements)).
		Dur("took", time.Since(start)).
		Msg("partitioned via container")
	return elements, nil
}

// containerArgs builds the image command line. The filename lets the image
// detect the file type of the stdin stream.
func containerArgs(name string, opts types.PartitionOptions) []string {
	args := []string{"--filename", name}
	if opts.Strategy != "" {
		args = append(args, "--strategy", string(opts.Strategy))
	}
	if len(opts.Languages) > 0 {
		args = append(args, "--languages", strings.Join(opts.Languages, ","))
	}
	if opts.InferTableStructure {
		args = append(args, "--infer-table-structure")
	}
	return args
}
