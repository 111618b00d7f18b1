package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fahmaliyi/passvault/vault"
)

// SecretReader prompts for a value without echoing it.
type SecretReader func(prompt string) (string, error)

type repl struct {
	s          *vault.Session
	reader     *bufio.Reader
	out        io.Writer
	readSecret SecretReader
}

// RunCommands runs the line-oriented interface until the user quits or in
// reaches EOF.
func RunCommands(s *vault.Session, in io.Reader, out io.Writer, readSecret SecretReader) error {
	r := &repl{s: s, reader: bufio.NewReader(in), out: out, readSecret: readSecret}

	r.printHelp()
	for {
		if r.s.Locked() {
			r.printLocked()
		}
		fmt.Fprint(out, "> ")

		line, err := r.reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if r.s.Locked() {
			switch cmd {
			case "l", "i", "q", "h":
			default:
				fmt.Fprintln(out, "Session locked. Use l to reauthorize.")
				continue
			}
		}

		switch cmd {
		case "s":
			r.handleStore()
		case "r":
			if len(parts) < 2 {
				fmt.Fprintln(out, "Specify record ID")
				continue
			}
			r.handleRetrieve(parts[1])
		case "l":
			r.handleLogin()
		case "i":
			r.handleStatus()
		case "h":
			r.printHelp()
		case "q":
			fmt.Fprintln(out, "Exiting.")
			return nil
		default:
			fmt.Fprintln(out, "Unknown command")
		}
	}
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, "\nCommands: s=store, r ID=retrieve, l=login, i=status, h=help, q=quit")
}

func (r *repl) printLocked() {
	if r.s.LoginOffered() {
		fmt.Fprintln(r.out, "Too many failed attempts. Reauthorization required (l).")
		return
	}
	fmt.Fprintf(r.out, "Too many failed attempts. Try again in %d seconds.\n", r.s.CooldownSeconds())
}

// --- Individual command handlers ---

func (r *repl) handleRetrieve(id string) {
	_ = r.s.Navigate(vault.PageRetrieve)
	passkey, err := r.readSecret("Passkey: ")
	if err != nil {
		fmt.Fprintln(r.out, "Error reading passkey:", err)
		return
	}
	pt, err := r.s.Retrieve(id, passkey)
	if err != nil {
		fmt.Fprintln(r.out, describe(r.s, err))
		return
	}
	fmt.Fprintf(r.out, "Decrypted data:\n%s\n", pt)
}

func (r *repl) handleLogin() {
	_ = r.s.Navigate(vault.PageLogin)
	if !r.s.LoginOffered() {
		r.printLocked()
		return
	}
	master, err := r.readSecret("Master password: ")
	if err != nil {
		fmt.Fprintln(r.out, "Error reading password:", err)
		return
	}
	if err := r.s.Reauthorize(master); err != nil {
		fmt.Fprintln(r.out, describe(r.s, err))
		return
	}
	fmt.Fprintln(r.out, "Reauthorized successfully.")
}

func (r *repl) handleStatus() {
	fmt.Fprintf(r.out, "Page: %s\nAttempts remaining: %d\nRecords: %d\n",
		r.s.ActivePage(), r.s.AttemptsRemaining(), r.s.RecordCount())
	if r.s.Locked() {
		fmt.Fprintf(r.out, "Cooldown: %d seconds\n", r.s.CooldownSeconds())
	}
}
