package main

import (
	"context"
	"fmt"

	drawioexport "github.com/rbellek/go-drawio-export"
)

// Renderer is the interface for a pooled export engine.
type Renderer interface {
	Render(ctx context.Context, req drawioexport.Request) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*drawioexport.Exporter)(nil)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() (Renderer, error)
	Release(Renderer)
	Size() int
}

// exporterPool adapts drawioexport.ExporterPool to the CLI Pool interface.
type exporterPool struct {
	pool *drawioexport.ExporterPool
}

// Compile-time interface implementation check.
var _ Pool = (*exporterPool)(nil)

func newExporterPool(size int, opts ...drawioexport.Option) *exporterPool {
	return &exporterPool{pool: drawioexport.NewExporterPool(size, opts...)}
}

func (p *exporterPool) Acquire() (Renderer, error) {
	return p.pool.Acquire()
}

func (p *exporterPool) Release(r Renderer) {
	e, ok := r.(*drawioexport.Exporter)
	if !ok {
		panic(fmt.Sprintf("unexpected renderer type %T", r))
	}
	p.pool.Release(e)
}

func (p *exporterPool) Size() int {
	return p.pool.Size()
}

func (p *exporterPool) Close() error {
	return p.pool.Close()
}
