package binder

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" form:"hello" mod:"trim,escape" validate:"max=9"`
	Omit  string `json:"-" form:"-"`
}

type formParams struct {
	FieldErrors `form:"-" json:"-"`

	Name  string `json:"name" form:"name" mod:"trim,escape" validate:"required,alphanum"`
	Start string `json:"start" form:"start" mod:"trim" validate:"omitempty,date"`
	End   string `json:"end" form:"end" mod:"trim" validate:"omitempty,date,dateafter=Start"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json and form payloads", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})
}

func TestBindForm(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("decodes urlencoded bodies with the form tag", func(tt *testing.T) {
		c := newFormContext(url.Values{"hello": {" world "}})
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("escapes markup in string fields", func(tt *testing.T) {
		c := newFormContext(url.Values{"name": {`<script>x</script>`}})
		p := formParams{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "&lt;script&gt;x&lt;/script&gt;", p.Name)
	})
}

func TestBindCollectsFieldErrors(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("collects every failure instead of aborting", func(tt *testing.T) {
		c := newFormContext(url.Values{"name": {""}, "start": {"not-a-date"}})
		p := formParams{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.False(tt, p.Valid())

		fields := map[string]string{}
		for _, fe := range p.Errors() {
			fields[fe.Field] = fe.Message
		}
		assert.Equal(tt, `"name" is required`, fields["name"])
		assert.Equal(tt, `"start" should be in the format of YYYY-MM-DD`, fields["start"])
	})

	t.Run("keeps sanitized values for the re-render", func(tt *testing.T) {
		c := newFormContext(url.Values{"name": {"  Jo-hn  "}})
		p := formParams{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.False(tt, p.Valid())
		assert.Equal(tt, "Jo-hn", p.Name)
	})

	t.Run("valid payloads report valid", func(tt *testing.T) {
		c := newFormContext(url.Values{"name": {"Jane"}, "start": {"1900-01-01"}, "end": {"1970-12-31"}})
		p := formParams{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.True(tt, p.Valid())
	})
}

func TestDateValidators(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("rejects malformed dates", func(tt *testing.T) {
		c := newFormContext(url.Values{"name": {"Jane"}, "start": {"01/02/1900"}})
		p := formParams{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.False(tt, p.Valid())
		assert.Equal(tt, "start", p.Errors()[0].Field)
	})

	t.Run("rejects impossible calendar dates", func(tt *testing.T) {
		for _, value := range []string{"1990-02-31", "1990-00-15", "2001-04-31"} {
			c := newFormContext(url.Values{"name": {"Jane"}, "start": {value}})
			p := formParams{}
			err = b.Bind(&p, c)
			require.NoError(tt, err)
			assert.False(tt, p.Valid(), value)
			assert.Equal(tt, "start", p.Errors()[0].Field, value)
		}
	})

	t.Run("rejects an end date before the start date", func(tt *testing.T) {
		c := newFormContext(url.Values{"name": {"Jane"}, "start": {"1970-01-01"}, "end": {"1900-01-01"}})
		p := formParams{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.False(tt, p.Valid())
		assert.Equal(tt, `"end" must not be before "start"`, p.Errors()[0].Message)
	})

	t.Run("allows an empty start with a set end", func(tt *testing.T) {
		c := newFormContext(url.Values{"name": {"Jane"}, "end": {"1900-01-01"}})
		p := formParams{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.True(tt, p.Valid())
	})
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func newFormContext(values url.Values) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
