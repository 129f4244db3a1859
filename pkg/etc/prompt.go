package etc

import (
	"fmt"
	"io"

	"golang.org/x/xerrors"

	"github.com/xray-reporter/kube-xray-reporter/pkg/ext"
)

// PromptCredentials asks for whatever part of the credentials is missing.
// The password is read with echo disabled.
func PromptCredentials(creds Credentials, ambassador ext.Ambassador, out io.Writer) (Credentials, error) {
	if creds.Username != "" && creds.Password != "" {
		return creds, nil
	}

	if !ambassador.IsTerminal() {
		return creds, xerrors.New("credentials are missing and stdin is not a terminal")
	}

	if creds.Username == "" {
		_, _ = fmt.Fprint(out, "Username: ")
		username, err := ambassador.ReadLine()
		if err != nil {
			return creds, xerrors.Errorf("reading username: %w", err)
		}
		creds.Username = username
	}

	if creds.Password == "" {
		_, _ = fmt.Fprint(out, "Password: ")
		password, err := ambassador.ReadPassword()
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return creds, xerrors.Errorf("reading password: %w", err)
		}
		creds.Password = password
	}

	return creds, nil
}
