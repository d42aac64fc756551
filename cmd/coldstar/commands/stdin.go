package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/devsyrem/coldstar/internal/config"
)

// stdinCommand is one line of the --stdin protocol, discriminated by action.
type stdinCommand struct {
	Action      string `json:"action"`
	PrivateKey  string `json:"private_key,omitempty"`
	Passphrase  string `json:"passphrase,omitempty"`
	Container   string `json:"container,omitempty"`
	Transaction string `json:"transaction,omitempty"`
	Message     string `json:"message,omitempty"`
}

// RunStdinLoop reads one JSON command object per line and writes one JSON
// response object per line. A malformed line yields an error response and
// the loop continues; this mode is meant to be driven by a host process over
// a pipe, so one bad command must not kill the session.
func RunStdinLoop(cfg *config.Config, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := bufio.NewWriter(w)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		resp := dispatchStdinCommand(cfg, line)
		encoded, err := json.Marshal(resp)
		if err != nil {
			encoded = []byte(fmt.Sprintf(`{"success":false,"error":%q}`, err.Error()))
		}
		fmt.Fprintln(out, string(encoded))
		if err := out.Flush(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func dispatchStdinCommand(cfg *config.Config, line string) response {
	var cmd stdinCommand
	if err := json.Unmarshal([]byte(line), &cmd); err != nil {
		return response{Success: false, Error: "invalid JSON: " + err.Error()}
	}

	var (
		data json.RawMessage
		err  error
	)
	switch cmd.Action {
	case "create_container":
		data, err = handleCreateContainer(cfg, cmd.PrivateKey, cmd.Passphrase, "")
	case "sign":
		data, err = handleSign(cfg, cmd.Container, cmd.Passphrase, cmd.Transaction)
	case "sign_direct":
		data, err = handleSignDirect(cfg, cmd.PrivateKey, cmd.Message)
	case "check":
		data, err = handleCheck(cfg)
	default:
		err = fmt.Errorf("unknown action %q", cmd.Action)
	}

	if err != nil {
		return response{Success: false, Error: err.Error()}
	}
	return response{Success: true, Data: data}
}
