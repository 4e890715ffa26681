package lazyjson

import "sort"

// ExpansionPolicy controls how aggressively an Encoder's backing store
// grows when it runs out of room, trading peak memory against the
// number of reallocations a large encode performs.
type ExpansionPolicy int

const (
	// ExpansionSmallest grows by exactly what's needed, every time.
	// Lowest peak memory, most reallocations; fine for small one-shot
	// encodes.
	ExpansionSmallest ExpansionPolicy = iota
	// ExpansionSmall grows to the larger of what's needed and 4096
	// bytes.
	ExpansionSmall
	// ExpansionNormal grows to the larger of what's needed and the
	// encoder's configured expected size. The default.
	ExpansionNormal
	// ExpansionEager doubles the current capacity (or grows to what's
	// needed if that's larger). Fewest reallocations, highest peak
	// memory; suited to encoders reused across many large values.
	ExpansionEager
)

const smallGrowthFloor = 4096

// EncoderSettings configures an Encoder's behavior.
type EncoderSettings struct {
	KeyStrategy  KeyStrategy
	DateStrategy DateStrategy
	DataStrategy DataStrategy
	Expansion    ExpansionPolicy
	ExpectedSize int // used by ExpansionNormal; defaults to 256 if zero
	SortKeys     bool
}

// DefaultEncoderSettings returns the zero-value-safe defaults used when
// Encode is called without explicit settings.
func DefaultEncoderSettings() EncoderSettings {
	return EncoderSettings{Expansion: ExpansionNormal, ExpectedSize: 256}
}

// Encoder is a growable byte store that accumulates a single JSON
// document. It tracks which containers are still open ("pending
// closers") so that Bytes refuses to hand back a document in which a
// container was left unclosed. Bytes already written are not rolled
// back.
type Encoder struct {
	settings EncoderSettings
	buf      []byte

	// pendingClosers counts open '{' and '[' not yet matched by a
	// closing delimiter; Bytes returns ErrUnclosedContainer while it is
	// non-zero (for example after an encode that returned an error
	// between opening a container and closing it).
	pendingClosers int
}

// NewEncoder returns an Encoder ready to accept a single top-level
// value.
func NewEncoder(settings EncoderSettings) *Encoder {
	if settings.ExpectedSize <= 0 {
		settings.ExpectedSize = 256
	}
	cap0 := settings.ExpectedSize
	if settings.Expansion == ExpansionSmall && cap0 < smallGrowthFloor {
		cap0 = smallGrowthFloor
	}
	return &Encoder{settings: settings, buf: make([]byte, 0, cap0)}
}

// Bytes returns the accumulated document. It is an error to call this
// while any container opened through this encoder remains unclosed.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.pendingClosers != 0 {
		return nil, ErrUnclosedContainer
	}
	return e.buf, nil
}

func (e *Encoder) grow(extra int) {
	need := len(e.buf) + extra
	if need <= cap(e.buf) {
		return
	}
	var newCap int
	switch e.settings.Expansion {
	case ExpansionSmallest:
		newCap = need
	case ExpansionSmall:
		newCap = need
		if newCap < smallGrowthFloor {
			newCap = smallGrowthFloor
		}
	case ExpansionEager:
		newCap = cap(e.buf) * 2
		if newCap < need {
			newCap = need
		}
	default: // ExpansionNormal
		newCap = need
		if newCap < e.settings.ExpectedSize {
			newCap = e.settings.ExpectedSize
		}
	}
	grown := make([]byte, len(e.buf), newCap)
	copy(grown, e.buf)
	e.buf = grown
}

func (e *Encoder) append(p []byte) {
	e.grow(len(p))
	e.buf = append(e.buf, p...)
}

func (e *Encoder) appendByte(b byte) {
	e.grow(1)
	e.buf = append(e.buf, b)
}

// EncodeValue appends v's JSON rendering to the encoder's buffer.
func (e *Encoder) EncodeValue(v Value) error {
	switch v.Kind {
	case KindNull:
		e.append([]byte("null"))
	case KindBool:
		if v.Bool {
			e.append([]byte("true"))
		} else {
			e.append([]byte("false"))
		}
	case KindNumber:
		if v.IsInt {
			e.append(formatInteger(v.Int))
		} else {
			e.append(formatNumber(v.Float))
		}
	case KindString:
		e.appendQuotedString(v.Str)
	case KindObject:
		return e.encodeObjectValue(v.Object)
	case KindArray:
		return e.encodeArrayValue(v.Array)
	default:
		return ErrUnknownStrategy
	}
	return nil
}

func (e *Encoder) encodeObjectValue(o *Object) error {
	e.appendByte('{')
	e.pendingClosers++
	keys := o.Keys()
	if e.settings.SortKeys {
		sort.Strings(keys)
	}
	for i, k := range keys {
		if i > 0 {
			e.appendByte(',')
		}
		e.appendQuotedString(k)
		e.appendByte(':')
		v, _ := o.Get(k)
		if err := e.EncodeValue(v); err != nil {
			return err
		}
	}
	e.appendByte('}')
	e.pendingClosers--
	return nil
}

func (e *Encoder) encodeArrayValue(a *Array) error {
	e.appendByte('[')
	e.pendingClosers++
	first := true
	for _, v := range a.Values() {
		if !first {
			e.appendByte(',')
		}
		first = false
		if err := e.EncodeValue(v); err != nil {
			return err
		}
	}
	e.appendByte(']')
	e.pendingClosers--
	return nil
}

// appendQuotedString writes s as a JSON string literal, escaping the
// minimal required alphabet plus control characters.
func (e *Encoder) appendQuotedString(s string) {
	e.buf = appendQuotedJSONString(e.buf, s)
}

// appendQuotedJSONString appends s, quoted and escaped, to dst and
// returns the result. Shared by Encoder and the Object/Array key-literal
// helpers so both escape identically.
func appendQuotedJSONString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			if c < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0')
				dst = append(dst, hexDigit(c>>4), hexDigit(c&0xf))
			} else {
				dst = append(dst, c)
			}
		}
	}
	return append(dst, '"')
}

func hexDigit(v byte) byte {
	if v < 10 {
		return '0' + v
	}
	return 'a' + v - 10
}

// encodeValue renders v as a standalone JSON literal, for the
// convenience Set/Append wrappers that accept a Value rather than raw
// JSON bytes.
func encodeValue(v Value) ([]byte, error) {
	e := NewEncoder(DefaultEncoderSettings())
	if err := e.EncodeValue(v); err != nil {
		return nil, err
	}
	return e.Bytes()
}

// Marshaler is implemented by types that can render themselves directly
// onto an Encoder, bypassing the reflect-based struct walk. It plays the
// role Go's encoding/json assigns to MarshalJSON, but receives a live
// Encoder instead of returning a fully-formed byte slice, so a large
// aggregate type can stream its fields without an intermediate
// allocation per member.
type Marshaler interface {
	MarshalLazyJSON(e *Encoder) error
}

// Unmarshaler is Marshaler's decode-side counterpart.
type Unmarshaler interface {
	UnmarshalLazyJSON(d *Decoder) error
}
