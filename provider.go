// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import (
	"fmt"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// Provider lends a stable byte span that archive trees borrow payloads
// from. It either maps a file read-only or wraps a caller-supplied
// buffer. No consumer ever writes through the span. Closing the provider
// invalidates every borrowed payload built from it; take ownership of
// payloads that must outlive it.
type Provider struct {
	data []byte
	m    mmap.MMap
	file *os.File
	// mu guards closed state and close operation.
	mu     sync.Mutex
	closed bool
}

// OpenProvider opens path and maps it read-only.
func OpenProvider(path string) (*Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	if fi.Size() == 0 {
		// Zero-length files cannot be mapped; an empty span is still a
		// valid provider.
		return &Provider{file: f}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("map archive: %w", err)
	}

	return &Provider{data: m, m: m, file: f}, nil
}

// NewProvider wraps a caller-supplied span. The span must remain valid
// for the provider's lifetime; Close is a no-op apart from marking the
// provider unusable.
func NewProvider(data []byte) *Provider {
	return &Provider{data: data}
}

// Bytes returns the whole lent span.
func (p *Provider) Bytes() []byte {
	return p.data
}

// Len returns the span length.
func (p *Provider) Len() int {
	return len(p.data)
}

// Source returns a fresh cursor over the lent span.
func (p *Provider) Source() *Source {
	return NewSource(p.data)
}

// Close unmaps the backing file when one is mapped. Borrowed payloads
// must not be touched afterwards.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	p.closed = true
	p.data = nil

	var err error
	if p.m != nil {
		err = p.m.Unmap()
		p.m = nil
	}
	if p.file != nil {
		if cerr := p.file.Close(); err == nil {
			err = cerr
		}
		p.file = nil
	}

	return err
}
