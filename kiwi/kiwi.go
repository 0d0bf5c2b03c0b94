// Package kiwi wraps the backend procedures in typed calls. Arguments are
// validated before anything is sent, and backend failures are reported
// through notify before being returned.
package kiwi

import (
	"context"

	"github.com/kiwi-automation/kiwi/notify"
)

// Invoker calls a named backend procedure. args is encoded as the params
// object; result, when non-nil, receives the decoded result.
type Invoker interface {
	Invoke(ctx context.Context, method string, args interface{}, result interface{}) error
}

// Kiwi groups every wrapper over one Invoker.
type Kiwi struct {
	App     *App
	Capture *Capture
	Common  *Common
	Frame   *Frame
	Code    *Code
	Project *Project
}

func New(inv Invoker) *Kiwi {
	return &Kiwi{
		App:     NewApp(inv),
		Capture: &Capture{inv: inv},
		Common:  &Common{inv: inv},
		Frame:   &Frame{inv: inv},
		Code:    &Code{inv: inv},
		Project: &Project{inv: inv},
	}
}

func call(ctx context.Context, inv Invoker, method string, args interface{}, result interface{}) error {
	if err := inv.Invoke(ctx, method, args, result); err != nil {
		notify.ErrorObject(err)
		return err
	}
	return nil
}
