// Package savecodec turns save snapshots into short copy-pasteable strings:
// a version prefix followed by base64 of the zstd-compressed JSON.
package savecodec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const Prefix = "IRPG1:"

const maxDecodedSize = 8 << 20

var (
	ErrUnknownFormat = errors.New("unknown save format")
	ErrMalformed     = errors.New("malformed save code")
)

type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func New() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize))
	if err != nil {
		_ = enc.Close()
		return nil, err
	}
	return &Codec{enc: enc, dec: dec}, nil
}

func (c *Codec) Encode(data []byte) (string, error) {
	packed := c.enc.EncodeAll(data, make([]byte, 0, len(data)/2))
	return Prefix + base64.RawURLEncoding.EncodeToString(packed), nil
}

func (c *Codec) Decode(code string) ([]byte, error) {
	code = strings.TrimSpace(code)
	body, ok := strings.CutPrefix(code, Prefix)
	if !ok {
		return nil, ErrUnknownFormat
	}
	packed, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	data, err := c.dec.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return data, nil
}

func (c *Codec) Close() {
	_ = c.enc.Close()
	c.dec.Close()
}
