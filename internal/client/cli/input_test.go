package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubPassword(t *testing.T, pw string, err error) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		return []byte(pw), err
	}
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	stubPassword(t, "a2bcdeF4", nil)
	var out bytes.Buffer
	got, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "a2bcdeF4", got)
}

func TestGetPassword_Error(t *testing.T) {
	stubPassword(t, "", errors.New("boom"))
	var out bytes.Buffer
	_, err := GetPassword(&out)
	require.Error(t, err)
}

func TestGetPhones(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []client.Phone
		wantErr  bool
	}{
		{
			name:     "Unix newlines, stop on empty line",
			input:    "3001234,1,57\n4445566, 2 ,57\n\n",
			expected: []client.Phone{{Number: "3001234", CityCode: "1", CountryCode: "57"}, {Number: "4445566", CityCode: "2", CountryCode: "57"}},
		},
		{
			name:     "Windows CRLF",
			input:    "3001234,1,57\r\n\r\n",
			expected: []client.Phone{{Number: "3001234", CityCode: "1", CountryCode: "57"}},
		},
		{
			name:     "Immediate blank line gives empty slice",
			input:    "\n",
			expected: []client.Phone{},
		},
		{
			name:     "EOF ends input",
			input:    "3001234,1,57",
			expected: []client.Phone{{Number: "3001234", CityCode: "1", CountryCode: "57"}},
		},
		{
			name:    "wrong arity",
			input:   "3001234,1\n\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetPhones(rdr(tt.input), &out)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
