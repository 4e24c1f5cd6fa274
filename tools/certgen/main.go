// Package main generates a development Certificate Authority and a server
// certificate for the backend, writing them under the "certs" directory.
//
//	go run ./tools/certgen -dir certs -hosts localhost,127.0.0.1
//
// Start the server with -tls-cert certs/server.crt -tls-key certs/server.key
// and point the client at the CA with --ca certs/ca.crt.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atinyakov/shipdash/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	fs.SetOutput(out)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma separated server names and IPs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}
	if err := certgen.WriteDevCertificates(*dir, names); err != nil {
		return err
	}
	fmt.Fprintf(out, "Certificates generated into %s\n", *dir)
	return nil
}
