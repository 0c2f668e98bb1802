// Package clipid derives a stable identity for a clip request, so
// the history can tell when the same range of the same file has
// already been exported with the same settings.
package clipid

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"

	"github.com/achernya/autoclip/session"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Clip is the part of an export request that determines its result.
// Marks are kept in whole milliseconds so that positions differing
// only by float noise identify the same clip.
//
// Clip is represented in ASN.1 as
//
//	Clip ::= SEQUENCE {
//	  source   OctetString,
//	  startMs  INTEGER,
//	  endMs    INTEGER,
//	  profile  OctetString,
//	  options  SEQUENCE OF OctetString }
type Clip struct {
	Source      string
	StartMillis int64
	EndMillis   int64
	Profile     string
	Options     []string
}

var ErrIncomplete = errors.New("clip needs both marks")

// FromRequest extracts the identifying fields of req. Both marks
// must be set.
func FromRequest(req session.Request) (*Clip, error) {
	if req.Start == nil || req.End == nil {
		return nil, ErrIncomplete
	}
	return &Clip{
		Source:      req.Source,
		StartMillis: millis(*req.Start),
		EndMillis:   millis(*req.End),
		Profile:     req.Profile.ID,
		Options:     req.Profile.Options,
	}, nil
}

func millis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}

func Serialize(c *Clip) ([]byte, error) {
	if c == nil {
		return nil, errors.New("input must not be nil")
	}
	b := cryptobyte.NewBuilder(make([]byte, 0, 64))
	b.AddASN1(asn1.SEQUENCE, func(outer *cryptobyte.Builder) {
		outer.AddASN1OctetString([]byte(c.Source))
		outer.AddASN1Int64(c.StartMillis)
		outer.AddASN1Int64(c.EndMillis)
		outer.AddASN1OctetString([]byte(c.Profile))
		outer.AddASN1(asn1.SEQUENCE, func(inner *cryptobyte.Builder) {
			for _, o := range c.Options {
				inner.AddASN1OctetString([]byte(o))
			}
		})
	})
	return b.Bytes()
}

// Fingerprint returns the hex SHA-256 of the serialized clip.
func Fingerprint(c *Clip) (string, error) {
	b, err := Serialize(c)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
