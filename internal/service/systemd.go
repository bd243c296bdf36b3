package service

import (
	"fmt"
	"strings"
)

func renderSystemd(def Definition) []byte {
	var b strings.Builder

	b.WriteString("[Unit]\n")
	b.WriteString("Description=AD-Setup forest health monitor\n")
	b.WriteString("After=network.target docker.service\n")
	b.WriteString("Wants=docker.service\n\n")

	b.WriteString("[Service]\n")
	b.WriteString("Type=simple\n")
	fmt.Fprintf(&b, "ExecStart=%s\n", strings.Join(programArguments(def), " "))
	b.WriteString("Restart=on-failure\n")
	b.WriteString("RestartSec=10\n\n")

	b.WriteString("[Install]\n")
	b.WriteString("WantedBy=multi-user.target\n")

	return []byte(b.String())
}
