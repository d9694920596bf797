/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/nspersist/nspersist/pkg/pdata/internal/utils"
	"github.com/nspersist/nspersist/pkg/pdef"
)

type sectionRef struct {
	Offset uint32
	Count  uint32
}

type fileHeader struct {
	Magic     [4]byte
	Version   uint32
	Strings   sectionRef
	Variables sectionRef
	Groups    sectionRef
}

type variableHeader struct {
	Kind             int32
	Name             uint32
	PossibilityCount uint32
}

type possibilityRecord struct {
	Dependency uint32
	Value      uint32
}

type groupHeader struct {
	PossibilityCount uint32
}

type groupPossibilityHeader struct {
	DependencyCount uint32
	MemberCount     uint32
}

type memberRecord struct {
	Kind  int32
	Name  uint32
	Value uint32
}

var (
	headerSize           = binary.Size(fileHeader{})
	variableHeaderSize   = binary.Size(variableHeader{})
	possibilitySize      = binary.Size(possibilityRecord{})
	groupHeaderSize      = binary.Size(groupHeader{})
	groupPossibilitySize = binary.Size(groupPossibilityHeader{})
	memberSize           = binary.Size(memberRecord{})
	strIdxSize           = binary.Size(uint32(0))
)

// Reads nspdata blob from current position of the stream to its end.
//
// Empty stream is an empty instance. Returns ErrFormat if blob is damaged,
// has wrong magic or unsupported version.
func ParseFile(r io.ReadSeeker) (*Instance, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	size := end - start
	if size > MaxBlobSize {
		return nil, formatError(0, "blob size %d exceeds %d", size, MaxBlobSize)
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("error read nspdata: %w", err)
	}
	return parseBytes(data)
}

func parseBytes(data []byte) (*Instance, error) {
	inst := New()
	if len(data) == 0 {
		return inst, nil
	}
	if len(data) < headerSize {
		return nil, formatError(0, "header needs %d bytes, blob has %d", headerSize, len(data))
	}

	var hdr fileHeader
	if err := utils.Read(bytes.NewReader(data), &hdr); err != nil {
		return nil, fmt.Errorf("error read header: %w", err)
	}
	if hdr.Magic != fileMagic {
		return nil, formatError(0, "bad magic %q", hdr.Magic[:])
	}
	if hdr.Version != fileVersion {
		return nil, formatError(4, "unsupported version %d, expected %d", hdr.Version, fileVersion)
	}

	p := blobParser{data: data, inst: inst}
	if err := p.strings(hdr.Strings); err != nil {
		return nil, err
	}
	if err := p.variables(hdr.Variables); err != nil {
		return nil, err
	}
	if err := p.groups(hdr.Groups); err != nil {
		return nil, err
	}
	return inst, nil
}

type blobParser struct {
	data []byte
	inst *Instance
	r    *bytes.Reader
}

// Positions reader at section start, checks that count records of at least minSize fit
func (p *blobParser) section(name string, ref sectionRef, minSize int) error {
	if ref.Count == 0 {
		p.r = bytes.NewReader(nil)
		return nil
	}
	if int64(ref.Offset) < int64(headerSize) || int64(ref.Offset) > int64(len(p.data)) {
		return formatError(int64(ref.Offset), "%s section offset out of blob bounds", name)
	}
	if rest := int64(len(p.data)) - int64(ref.Offset); int64(ref.Count)*int64(minSize) > rest {
		return formatError(int64(ref.Offset), "%d %s do not fit into %d bytes", ref.Count, name, rest)
	}
	p.r = bytes.NewReader(p.data[ref.Offset:])
	return nil
}

func (p *blobParser) offset() int64 {
	return int64(len(p.data)) - int64(p.r.Len())
}

// Checks that count records of size fit into the rest of the section
func (p *blobParser) fits(count uint32, size int, what string) error {
	if int64(count)*int64(size) > int64(p.r.Len()) {
		return formatError(p.offset(), "%d %s do not fit into %d bytes", count, what, p.r.Len())
	}
	return nil
}

func (p *blobParser) read(data any, what string) error {
	ofs := p.offset()
	if err := utils.Read(p.r, data); err != nil {
		return formatError(ofs, "error read %s: %v", what, err)
	}
	return nil
}

func (p *blobParser) strIdx(idx uint32, what string) (StrIdx, error) {
	if int64(idx) >= int64(len(p.inst.Strings)) {
		return 0, formatError(p.offset(), "%s string index %d out of range %d", what, idx, len(p.inst.Strings))
	}
	return StrIdx(idx), nil
}

func (p *blobParser) kind(k int32, what string) (pdef.VarKind, error) {
	kind := pdef.VarKind(k)
	if !kind.IsValid() {
		return kind, formatError(p.offset(), "%s has invalid kind %d", what, k)
	}
	return kind, nil
}

func (p *blobParser) value(kind pdef.VarKind, raw uint32, what string) (Stored, error) {
	s, _ := storedFromRaw(kind, raw)
	if idx, ok := storedStrIdx(s); ok {
		if _, err := p.strIdx(uint32(idx), what+" value"); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *blobParser) strings(ref sectionRef) error {
	// every string holds at least terminating NUL
	if err := p.section("strings", ref, 1); err != nil {
		return err
	}
	br := bufio.NewReader(p.r)
	p.inst.Strings = make([]string, 0, ref.Count)
	for i := uint32(0); i < ref.Count; i++ {
		s, err := utils.ReadCString(br, len(p.data))
		if err != nil {
			return formatError(int64(ref.Offset), "string %d: %v", i, err)
		}
		p.inst.Strings = append(p.inst.Strings, s)
	}
	return nil
}

func (p *blobParser) variables(ref sectionRef) error {
	if err := p.section("variables", ref, variableHeaderSize); err != nil {
		return err
	}
	p.inst.Variables = make([]Variable, 0, ref.Count)
	for i := uint32(0); i < ref.Count; i++ {
		var vh variableHeader
		if err := p.read(&vh, "variable header"); err != nil {
			return err
		}
		kind, err := p.kind(vh.Kind, "variable")
		if err != nil {
			return err
		}
		name, err := p.strIdx(vh.Name, "variable name")
		if err != nil {
			return err
		}
		if err := p.fits(vh.PossibilityCount, possibilitySize, "possibilities"); err != nil {
			return err
		}
		v := Variable{Name: name, Kind: kind, Possibilities: make([]Possibility, 0, vh.PossibilityCount)}
		for j := uint32(0); j < vh.PossibilityCount; j++ {
			var pr possibilityRecord
			if err := p.read(&pr, "possibility"); err != nil {
				return err
			}
			dep := NoDependency
			if StrIdx(pr.Dependency) != NoDependency {
				if dep, err = p.strIdx(pr.Dependency, "possibility dependency"); err != nil {
					return err
				}
			}
			value, err := p.value(kind, pr.Value, "possibility")
			if err != nil {
				return err
			}
			v.Possibilities = append(v.Possibilities, Possibility{Dependency: dep, Value: value})
		}
		p.inst.Variables = append(p.inst.Variables, v)
	}
	return nil
}

func (p *blobParser) groups(ref sectionRef) error {
	if err := p.section("groups", ref, groupHeaderSize); err != nil {
		return err
	}
	p.inst.Groups = make([]Group, 0, ref.Count)
	for i := uint32(0); i < ref.Count; i++ {
		var gh groupHeader
		if err := p.read(&gh, "group header"); err != nil {
			return err
		}
		if err := p.fits(gh.PossibilityCount, groupPossibilitySize, "group possibilities"); err != nil {
			return err
		}
		g := Group{Possibilities: make([]GroupPossibility, 0, gh.PossibilityCount)}
		for j := uint32(0); j < gh.PossibilityCount; j++ {
			gp, err := p.groupPossibility()
			if err != nil {
				return err
			}
			g.Possibilities = append(g.Possibilities, gp)
		}
		p.inst.Groups = append(p.inst.Groups, g)
	}
	return nil
}

func (p *blobParser) groupPossibility() (gp GroupPossibility, err error) {
	var h groupPossibilityHeader
	if err := p.read(&h, "group possibility header"); err != nil {
		return gp, err
	}
	if err := p.fits(h.DependencyCount, strIdxSize, "group dependencies"); err != nil {
		return gp, err
	}
	gp.Dependencies = make([]StrIdx, 0, h.DependencyCount)
	for k := uint32(0); k < h.DependencyCount; k++ {
		var raw uint32
		if err := p.read(&raw, "group dependency"); err != nil {
			return gp, err
		}
		dep, err := p.strIdx(raw, "group dependency")
		if err != nil {
			return gp, err
		}
		gp.Dependencies = append(gp.Dependencies, dep)
	}
	if err := p.fits(h.MemberCount, memberSize, "group members"); err != nil {
		return gp, err
	}
	gp.Members = make([]GroupMember, 0, h.MemberCount)
	for k := uint32(0); k < h.MemberCount; k++ {
		var mr memberRecord
		if err := p.read(&mr, "group member"); err != nil {
			return gp, err
		}
		kind, err := p.kind(mr.Kind, "group member")
		if err != nil {
			return gp, err
		}
		name, err := p.strIdx(mr.Name, "group member name")
		if err != nil {
			return gp, err
		}
		value, err := p.value(kind, mr.Value, "group member")
		if err != nil {
			return gp, err
		}
		gp.Members = append(gp.Members, GroupMember{Name: name, Kind: kind, Value: value})
	}
	return gp, nil
}

// Commits resolved changes, if any, then writes nspdata blob at current position of the stream.
//
// Header is written twice: placeholder first, then populated header with
// offsets of sections actually written.
func (inst *Instance) ToStream(w io.WriteSeeker) error {
	if inst.resolved != nil {
		inst.CommitChanges()
	}

	start, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	hdr := fileHeader{Magic: fileMagic, Version: fileVersion}
	if err := writeHeader(w, &hdr); err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	sections := []struct {
		ref   *sectionRef
		count int
		write func(*bytebufferpool.ByteBuffer)
	}{
		{&hdr.Strings, len(inst.Strings), inst.writeStrings},
		{&hdr.Variables, len(inst.Variables), inst.writeVariables},
		{&hdr.Groups, len(inst.Groups), inst.writeGroups},
	}
	for _, s := range sections {
		pos, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		buf.Reset()
		s.write(buf)
		if _, err := w.Write(buf.B); err != nil {
			return fmt.Errorf("error write section: %w", err)
		}
		s.ref.Offset = uint32(pos - start)
		s.ref.Count = uint32(s.count)
	}

	end, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := w.Seek(start, io.SeekStart); err != nil {
		return err
	}
	if err := writeHeader(w, &hdr); err != nil {
		return err
	}
	_, err = w.Seek(end, io.SeekStart)
	return err
}

func writeHeader(w io.Writer, hdr *fileHeader) error {
	if err := binary.Write(w, utils.ByteOrder, hdr); err != nil {
		return fmt.Errorf("error write header: %w", err)
	}
	return nil
}

func (inst *Instance) writeStrings(buf *bytebufferpool.ByteBuffer) {
	for _, s := range inst.Strings {
		utils.WriteCString(buf, s)
	}
}

func (inst *Instance) writeVariables(buf *bytebufferpool.ByteBuffer) {
	for _, v := range inst.Variables {
		utils.SafeWriteBuf(buf, variableHeader{Kind: int32(v.Kind), Name: uint32(v.Name), PossibilityCount: uint32(len(v.Possibilities))})
		for _, p := range v.Possibilities {
			utils.SafeWriteBuf(buf, possibilityRecord{Dependency: uint32(p.Dependency), Value: p.Value.raw()})
		}
	}
}

func (inst *Instance) writeGroups(buf *bytebufferpool.ByteBuffer) {
	for _, g := range inst.Groups {
		utils.SafeWriteBuf(buf, groupHeader{PossibilityCount: uint32(len(g.Possibilities))})
		for _, gp := range g.Possibilities {
			utils.SafeWriteBuf(buf, groupPossibilityHeader{DependencyCount: uint32(len(gp.Dependencies)), MemberCount: uint32(len(gp.Members))})
			for _, d := range gp.Dependencies {
				utils.SafeWriteBuf(buf, uint32(d))
			}
			for _, m := range gp.Members {
				utils.SafeWriteBuf(buf, memberRecord{Kind: int32(m.Kind), Name: uint32(m.Name), Value: m.Value.raw()})
			}
		}
	}
}

// Returns nspdata blob, committing resolved changes first
func (inst *Instance) MarshalBinary() ([]byte, error) {
	var b utils.SeekBuffer
	if err := inst.ToStream(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Replaces instance records with blob content and drops resolved values
func (inst *Instance) UnmarshalBinary(data []byte) error {
	parsed, err := parseBytes(data)
	if err != nil {
		return err
	}
	*inst = *parsed
	return nil
}
