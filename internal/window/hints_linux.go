//go:build linux

package window

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// wmHints talks to the window manager over a second, pure Go connection.
// Window ids are server-global, so it can decorate windows created through
// Xlib.
type wmHints struct {
	xu *xgbutil.XUtil
}

func openHints() (*wmHints, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	return &wmHints{xu: xu}, nil
}

func (h *wmHints) close() {
	h.xu.Conn().Close()
}

// fixSize pins the window to its current size.
func (h *wmHints) fixSize(win uintptr, width, height int) error {
	w, ht := uint(extent(width)), uint(extent(height))
	return icccm.WmNormalHintsSet(h.xu, xproto.Window(win), &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth:  w,
		MinHeight: ht,
		MaxWidth:  w,
		MaxHeight: ht,
	})
}

func (h *wmHints) setName(win uintptr, title string) error {
	return ewmh.WmNameSet(h.xu, xproto.Window(win), title)
}

// postQuit sends a quit client message to win, which only the owning Xlib
// connection listens on.
func (h *wmHints) postQuit(win uintptr) error {
	reply, err := xproto.InternAtom(h.xu.Conn(), false,
		uint16(len(quitAtomName)), quitAtomName).Reply()
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", quitAtomName, err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(win),
		Type:   reply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{0, 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		h.xu.Conn(),
		false,
		xproto.Window(win),
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}
