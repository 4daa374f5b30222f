package serde

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/CAD97/sorbus"
)

const (
	tagToken byte = 1
	tagNode  byte = 2
)

// EncodeBinary writes root to w in post-order: a token emits
// (tagToken, kind, len(text), text); a node emits its children's
// serialized forms first, then (tagNode, kind, childCount, width). The
// stream carries no offsets and no interning markers — both are
// recomputed by the Builder that decodes it; width is carried only so
// the decoder can catch a stream whose node declares a width that
// disagrees with what its reconstructed children actually sum to.
func EncodeBinary(w io.Writer, root sorbus.ElementRef) error {
	bw := bufio.NewWriter(w)
	if err := encodeElement(bw, root); err != nil {
		return err
	}
	return bw.Flush()
}

func encodeElement(w *bufio.Writer, ref sorbus.ElementRef) error {
	if tok, ok := ref.AsToken(); ok {
		if err := w.WriteByte(tagToken); err != nil {
			return err
		}
		if err := writeUint16(w, uint16(tok.Kind())); err != nil {
			return err
		}
		text := tok.Text()
		if len(text) > math.MaxUint32 {
			return sorbus.ErrWidthOverflow
		}
		if err := writeUint32(w, uint32(len(text))); err != nil {
			return err
		}
		_, err := w.WriteString(text)
		return err
	}

	node, ok := ref.AsNode()
	if !ok {
		return sorbus.ErrDeserializeMalformed
	}
	for _, c := range node.Children() {
		if err := encodeElement(w, c.Ref); err != nil {
			return err
		}
	}
	if err := w.WriteByte(tagNode); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(node.Kind())); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(node.ChildCount())); err != nil {
		return err
	}
	return writeUint32(w, node.Width())
}

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// DecodeBinary reads a stream written by EncodeBinary, reconstructing it
// through b so that the result is interned (and shares structure with
// anything else already built through b). It returns
// ErrDeserializeMalformed if the stream ends early, contains an
// unrecognized tag, a node's declared child count doesn't match the
// number of elements available on the reconstruction stack, or a node's
// declared width disagrees with the width its reconstructed children
// actually sum to.
func DecodeBinary(r io.Reader, b *sorbus.Builder) (sorbus.ElementRef, error) {
	br := bufio.NewReader(r)
	var stack []sorbus.ElementRef

	for {
		tag, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sorbus.ElementRef{}, err
		}

		switch tag {
		case tagToken:
			kind, err := readUint16(br)
			if err != nil {
				return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
			}
			n, err := readUint32(br)
			if err != nil {
				return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
			}
			text := make([]byte, n)
			if _, err := io.ReadFull(br, text); err != nil {
				return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
			}
			ref, err := b.Token(sorbus.Kind(kind), string(text))
			if err != nil {
				return sorbus.ElementRef{}, err
			}
			stack = append(stack, ref)

		case tagNode:
			kind, err := readUint16(br)
			if err != nil {
				return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
			}
			childCount, err := readUint32(br)
			if err != nil {
				return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
			}
			wantWidth, err := readUint32(br)
			if err != nil {
				return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
			}
			if int(childCount) > len(stack) {
				return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
			}
			split := len(stack) - int(childCount)
			children := append([]sorbus.ElementRef{}, stack[split:]...)
			stack = stack[:split]
			ref, err := b.Node(sorbus.Kind(kind), children)
			if err != nil {
				return sorbus.ElementRef{}, err
			}
			if ref.Width() != wantWidth {
				ref.Drop()
				for _, s := range stack {
					s.Drop()
				}
				return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
			}
			stack = append(stack, ref)

		default:
			return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
		}
	}

	if len(stack) != 1 {
		for _, ref := range stack {
			ref.Drop()
		}
		return sorbus.ElementRef{}, sorbus.ErrDeserializeMalformed
	}
	return stack[0], nil
}

func readUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
