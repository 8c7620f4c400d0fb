// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/aristanetworks/tvgraph/bucket"
)

const (
	magicTag      = 0x47475654
	formatVersion = 1
	headerSize    = 20
	entrySize     = 24
)

// Save writes g to path in the engine's binary snapshot format: a
// 20-byte header (tag, version, flags, bitsSource, bitsTarget) followed
// by one (u64 count, count * Entry2) block per bucket, all little
// endian. Opening the file is retried with backoff to ride out
// transient filesystem contention.
func (g *Graph) Save(path string) error {
	var f *os.File
	open := func() error {
		var err error
		f, err = os.Create(path)
		return err
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Second
	if err := backoff.Retry(open, policy); err != nil {
		return wrapErr("Save", IoError, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := g.writeTo(w); err != nil {
		return wrapErr("Save", IoError, err)
	}
	if err := w.Flush(); err != nil {
		return wrapErr("Save", IoError, err)
	}
	return nil
}

func (g *Graph) writeTo(w io.Writer) error {
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], magicTag)
	binary.LittleEndian.PutUint32(hdr[4:8], formatVersion)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(g.flags&persistFlagsMask))
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(g.bitsSource))
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(g.bitsTarget))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	var countBuf [8]byte
	var entryBuf [entrySize]byte
	for i := range g.buckets {
		entries := g.buckets[i].Entries()
		binary.LittleEndian.PutUint64(countBuf[:], uint64(len(entries)))
		if _, err := w.Write(countBuf[:]); err != nil {
			return err
		}
		for _, e := range entries {
			binary.LittleEndian.PutUint64(entryBuf[0:8], e.Source)
			binary.LittleEndian.PutUint64(entryBuf[8:16], e.Target)
			binary.LittleEndian.PutUint32(entryBuf[16:20], math.Float32bits(e.Weight))
			entryBuf[20], entryBuf[21], entryBuf[22], entryBuf[23] = 0, 0, 0, 0
			if _, err := w.Write(entryBuf[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads a Graph previously written by Save. A mismatched magic
// tag, unsupported version, or out-of-range bit-width exponent fails
// with IoError.
func Load(path string) (*Graph, error) {
	var f *os.File
	open := func() error {
		var err error
		f, err = os.Open(path)
		return err
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Second
	if err := backoff.Retry(open, policy); err != nil {
		return nil, wrapErr("Load", IoError, err)
	}
	defer f.Close()
	return readFrom(bufio.NewReader(f))
}

func readFrom(r io.Reader) (*Graph, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, wrapErr("Load", IoError, err)
	}
	tag := binary.LittleEndian.Uint32(hdr[0:4])
	version := binary.LittleEndian.Uint32(hdr[4:8])
	flags := Flags(binary.LittleEndian.Uint32(hdr[8:12]))
	bitsSource := binary.LittleEndian.Uint32(hdr[12:16])
	bitsTarget := binary.LittleEndian.Uint32(hdr[16:20])

	if tag != magicTag {
		return nil, wrapErr("Load", IoError, fmt.Errorf("bad snapshot tag %#x", tag))
	}
	if version != formatVersion {
		return nil, wrapErr("Load", IoError, fmt.Errorf("unsupported snapshot version %d", version))
	}
	if bitsSource > 31 || bitsTarget > 31 {
		return nil, wrapErr("Load", IoError, fmt.Errorf("bit-width exponents out of range: %d/%d", bitsSource, bitsTarget))
	}

	g := &Graph{
		refcount:   1,
		flags:      flags,
		bitsSource: uint(bitsSource),
		bitsTarget: uint(bitsTarget),
		optimize:   initialOptimize,
	}
	count := uint64(1) << (bitsSource + bitsTarget)
	g.buckets = make([]bucket.Bucket2, count)

	var countBuf [8]byte
	var entryBuf [entrySize]byte
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(r, countBuf[:]); err != nil {
			return nil, wrapErr("Load", IoError, err)
		}
		n := binary.LittleEndian.Uint64(countBuf[:])
		for j := uint64(0); j < n; j++ {
			if _, err := io.ReadFull(r, entryBuf[:]); err != nil {
				return nil, wrapErr("Load", IoError, err)
			}
			source := binary.LittleEndian.Uint64(entryBuf[0:8])
			target := binary.LittleEndian.Uint64(entryBuf[8:16])
			weight := math.Float32frombits(binary.LittleEndian.Uint32(entryBuf[16:20]))
			e, ok := g.buckets[i].GetEntry(source, target, true)
			if !ok {
				return nil, newErr("Load", OutOfMemory)
			}
			e.Weight = weight
		}
	}
	return g, nil
}
