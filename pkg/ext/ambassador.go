package ext

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	DefaultAmbassador = &ambassador{}
)

// Ambassador the ambassador to the outside "world". Wraps methods that modify global state and hence make the code that
// use them very hard to test.
type Ambassador interface {
	IsTerminal() bool
	ReadLine() (string, error)
	ReadPassword() (string, error)
}

type ambassador struct {
}

func (a *ambassador) IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (a *ambassador) ReadLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *ambassador) ReadPassword() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
