package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password from the
// terminal without echo. The raw bytes are wiped once copied.
func GetPassword(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	defer common.WipeByteArray(pw)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// GetPhones reads "number,cityCode,countryCode" lines until an empty line.
// Blank parts are kept so the server reports the missing field.
func GetPhones(reader *bufio.Reader, w io.Writer) ([]client.Phone, error) {
	fmt.Fprint(w, "Enter phones as number,cityCode,countryCode\n(press Enter on an empty line to finish)\n")

	phones := make([]client.Phone, 0)
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			break
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("phone %q: want number,cityCode,countryCode", line)
		}
		phones = append(phones, client.Phone{
			Number:      strings.TrimSpace(parts[0]),
			CityCode:    strings.TrimSpace(parts[1]),
			CountryCode: strings.TrimSpace(parts[2]),
		})
	}
	return phones, nil
}
