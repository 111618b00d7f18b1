package cli

import (
	"fmt"
	"strings"

	"github.com/fahmaliyi/passvault/vault"
)

func (r *repl) handleStore() {
	_ = r.s.Navigate(vault.PageStore)
	fmt.Fprint(r.out, "\n--- Store New Data ---\n")

	fmt.Fprint(r.out, "Data: ")
	text, _ := r.reader.ReadString('\n')
	text = strings.TrimRight(text, "\r\n")

	passkey, err := r.readSecret("Passkey: ")
	if err != nil {
		fmt.Fprintln(r.out, "Error reading passkey:", err)
		return
	}
	confirm, err := r.readSecret("Confirm passkey: ")
	if err != nil {
		fmt.Fprintln(r.out, "Error reading passkey:", err)
		return
	}

	id, err := r.s.StoreText(text, passkey, confirm)
	if err != nil {
		fmt.Fprintln(r.out, describe(r.s, err))
		return
	}
	fmt.Fprintf(r.out, "Data stored securely!\nID: %s\n", id)
}
