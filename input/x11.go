// Package input provides pointer sources outside the window toolkit.
package input

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Pointer reads the global pointer position from the X server.
// It works when the animation runs as a desktop background that never receives mouse events.
type X11Pointer struct {
	conn *xgb.Conn
	root xproto.Window
}

// NewX11Pointer connects to the display named by $DISPLAY.
func NewX11Pointer() (*X11Pointer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	return &X11Pointer{conn: conn, root: setup.DefaultScreen(conn).Root}, nil
}

// Position returns the pointer position in root window coordinates.
// ok is false when the pointer is on another screen.
func (p *X11Pointer) Position() (x, y int, ok bool, err error) {
	reply, err := xproto.QueryPointer(p.conn, p.root).Reply()
	if err != nil {
		return 0, 0, false, fmt.Errorf("querying pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), reply.SameScreen, nil
}

// Close closes the X connection.
func (p *X11Pointer) Close() {
	p.conn.Close()
}
