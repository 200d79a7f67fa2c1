package header

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-pgpmime/message/header/param"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrNoSuchFieldParameter is returned by Header methods when the
	// operation being performed failed because the header exists, but a
	// parameter of the header does not exist.
	ErrNoSuchFieldParameter = errors.New("no such header field parameter")

	// ErrManyFields is returned by Header methods when the operation
	// being performed failed because the there are multiple fields with the
	// given name.
	ErrManyFields = errors.New("many header fields found")

	// ErrWrongAddressType is returned by address setting methods that accept
	// either a string or an addr.Address when something other than those
	// types is provided.
	ErrWrongAddressType = errors.New("incorrect address type during write")
)

// Header field names used by this module.
const (
	ContentDisposition      = "Content-Disposition"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	MIMEVersion             = "MIME-Version"
	Subject                 = "Subject"
	To                      = "To"
)

// UnixDateWithEarlyYear is a date format seen in the wild that the usual
// parsers have trouble with.
const UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"

// Header wraps a Base with methods for reading and writing the fields this
// module cares about. Lookups are case-insensitive; a field keeps the name
// casing it was first given.
//
// The getter methods return ErrNoSuchField if the field is not set and
// ErrManyFields (alongside the first value) if it is set more than once.
type Header struct {
	Base
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	return &Header{Base: *h.Base.Clone()}
}

// Get retrieves the string value of the named field.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.GetField(ixs[0]).Body()
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// Set replaces all existing fields with the given name with a single field.
// If the field already exists, the first occurrence keeps its position and its
// original name casing and only its body is replaced; any later occurrences
// are deleted. Otherwise, the field is appended to the end of the header.
func (h *Header) Set(name, body string) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		h.InsertBeforeField(h.Len(), name, body)
		return
	}

	for i := len(ixs) - 1; i > 0; i-- {
		_ = h.DeleteField(ixs[i])
	}

	h.GetField(ixs[0]).SetBody(body)
}

// GetParamValue parses the named field as a param.Value.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}

	return param.Parse(body)
}

// SetParamValue replaces the named field with the rendered param.Value.
func (h *Header) SetParamValue(name string, pv *param.Value) {
	h.Set(name, pv.String())
}

// AddParams appends the given parameters to the named field. If the field is
// not set yet, it is created with def as its primary value. Parameters are
// joined with "; " and quoted following param.Format.
func (h *Header) AddParams(name, def string, ps ...param.Param) {
	body, err := h.Get(name)
	if err != nil {
		body = def
	}

	var b strings.Builder
	b.WriteString(body)
	for _, p := range ps {
		b.WriteString("; ")
		b.WriteString(param.Format(p.Name, p.Value))
	}

	h.Set(name, b.String())
}

func (h *Header) getParamValueParam(name, p string) (string, error) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return "", err
	}

	if v, ok := pv.Parameter(p); ok {
		return v, nil
	}

	return "", ErrNoSuchFieldParameter
}

func (h *Header) setParamValueParam(name, p, v string) error {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return err
	}

	h.SetParamValue(name, param.Modify(pv, param.Set(p, v)))
	return nil
}

// GetContentType returns the Content-Type header as a param.Value.
func (h *Header) GetContentType() (*param.Value, error) {
	return h.GetParamValue(ContentType)
}

// SetContentType replaces the Content-Type with the given param.Value.
func (h *Header) SetContentType(v *param.Value) {
	h.SetParamValue(ContentType, v)
}

// GetMediaType returns the case-folded MIME type set in the Content-Type
// header, without parameters.
func (h *Header) GetMediaType() (string, error) {
	pv, err := h.GetContentType()
	if err != nil {
		return "", err
	}
	return pv.MediaType(), nil
}

// GetBoundary gets the boundary parameter from the Content-Type header.
func (h *Header) GetBoundary() (string, error) {
	return h.getParamValueParam(ContentType, param.Boundary)
}

// SetBoundary sets the boundary parameter on the Content-Type header, which
// must already exist.
func (h *Header) SetBoundary(b string) error {
	return h.setParamValueParam(ContentType, param.Boundary, b)
}

// GetContentDisposition returns the Content-Disposition header as a
// param.Value.
func (h *Header) GetContentDisposition() (*param.Value, error) {
	return h.GetParamValue(ContentDisposition)
}

// GetPresentation returns the primary value of the Content-Disposition
// header, e.g., "attachment" or "inline".
func (h *Header) GetPresentation() (string, error) {
	pv, err := h.GetContentDisposition()
	if err != nil {
		return "", err
	}
	return pv.Disposition(), nil
}

// GetFilename gets the filename parameter of the Content-Disposition header.
func (h *Header) GetFilename() (string, error) {
	return h.getParamValueParam(ContentDisposition, param.Filename)
}

// GetTransferEncoding returns the case-folded Content-Transfer-Encoding.
func (h *Header) GetTransferEncoding() (string, error) {
	te, err := h.Get(ContentTransferEncoding)
	return strings.ToLower(strings.TrimSpace(te)), err
}

// SetTransferEncoding replaces the Content-Transfer-Encoding with the given
// value.
func (h *Header) SetTransferEncoding(te string) {
	h.Set(ContentTransferEncoding, te)
}

// ParseTime parses a date the way GetTime does. RFC 5322 is tried first, then
// anything dateparse understands, then a few odd formats seen in the wild.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime gets the named date field as a time.Time.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(body)
}

// SetTime sets the named field to the given time, formatted via
// time.RFC1123Z.
func (h *Header) SetTime(name string, t time.Time) {
	h.Set(name, t.Format(time.RFC1123Z))
}

// GetDate retrieves the Date header as a time.Time value.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// SetDate updates the Date header from the given time.Time value.
func (h *Header) SetDate(d time.Time) {
	h.SetTime(Date, d)
}

// GetSubject returns the value of the Subject header field.
func (h *Header) GetSubject() (string, error) {
	return h.Get(Subject)
}

// SetSubject replaces the Subject header field.
func (h *Header) SetSubject(s string) {
	h.Set(Subject, s)
}

// GetAddressList parses the named field as an address list.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(body) == "" {
		return addr.AddressList{}, nil
	}

	return addr.ParseEmailAddressList(body)
}

// SetAddressList replaces the named field with the given addresses.
func (h *Header) SetAddressList(name string, al ...addr.Address) {
	h.Set(name, addr.AddressList(al).String())
}

// setAddress sets an address field from strings or addr.Address values.
func (h *Header) setAddress(n string, as []any) error {
	al := make(addr.AddressList, 0, len(as))
	for _, a := range as {
		switch v := a.(type) {
		case string:
			parsed, err := addr.ParseEmailAddressList(v)
			if err != nil {
				return err
			}
			al = append(al, parsed...)
		case addr.Address:
			al = append(al, v)
		default:
			return ErrWrongAddressType
		}
	}
	h.SetAddressList(n, al...)
	return nil
}

// GetFrom returns the From field as an addr.AddressList.
func (h *Header) GetFrom() (addr.AddressList, error) {
	return h.GetAddressList(From)
}

// SetFrom sets the From field with either strings or addr.Address values.
func (h *Header) SetFrom(a ...any) error {
	return h.setAddress(From, a)
}

// GetTo returns the To field as an addr.AddressList.
func (h *Header) GetTo() (addr.AddressList, error) {
	return h.GetAddressList(To)
}

// SetTo sets the To field with either strings or addr.Address values.
func (h *Header) SetTo(a ...any) error {
	return h.setAddress(To, a)
}
