package ioserver

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
)

// StartError creates an error for a server that cannot listen.
func StartError(addr string, err error) error {
	msg := `Cannot start server on <em>%s</em>

<em>How to fix:</em>
  1. Check if the port is used by another program
  2. Choose another port with <em>dscat serve -p</em>`

	vars := []any{addr}
	return &gn.Error{
		Code: errcode.ServerStartError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot listen on %s: %w", addr, err),
	}
}
