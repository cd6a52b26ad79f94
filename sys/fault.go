package sys

import (
	"errors"
	"fmt"
)

// FaultKind classifies a handler failure for user-facing reporting.
type FaultKind int

const (
	FaultUnknown FaultKind = iota
	FaultValidation
	FaultNotInCommunity
	FaultAuthorization
	FaultNotFound
	FaultChannelNotConfigured
	FaultChannelMisconfigured
	FaultExternal
	FaultStorage
)

// Fault carries a kind plus a user-presentable message. The wrapped
// error (if any) is for logs only and never shown to users.
type Fault struct {
	Kind FaultKind
	Msg  string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Msg, f.Err)
	}
	return f.Msg
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func ValidationFault(format string, v ...any) *Fault {
	return &Fault{Kind: FaultValidation, Msg: fmt.Sprintf(format, v...)}
}

func NotInCommunityFault() *Fault {
	return &Fault{Kind: FaultNotInCommunity, Msg: "this command can only be used in a server"}
}

func AuthorizationFault(msg string) *Fault {
	return &Fault{Kind: FaultAuthorization, Msg: msg}
}

func NotFoundFault(format string, v ...any) *Fault {
	return &Fault{Kind: FaultNotFound, Msg: fmt.Sprintf(format, v...)}
}

func ChannelNotConfiguredFault(hint string) *Fault {
	return &Fault{Kind: FaultChannelNotConfigured, Msg: hint}
}

func ChannelMisconfiguredFault(hint string) *Fault {
	return &Fault{Kind: FaultChannelMisconfigured, Msg: hint}
}

func ExternalFault(msg string, err error) *Fault {
	return &Fault{Kind: FaultExternal, Msg: msg, Err: err}
}

func StorageFault(msg string, err error) *Fault {
	return &Fault{Kind: FaultStorage, Msg: msg, Err: err}
}

// KindOf extracts the fault kind from an error chain.
func KindOf(err error) FaultKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return FaultUnknown
}

// UserMessage renders an error as a user-facing reply line. Unknown
// errors get a generic message so internals never leak into chat.
func UserMessage(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		switch f.Kind {
		case FaultExternal:
			return "❌ an external service failed. please try again later."
		case FaultStorage:
			return "❌ something went wrong saving your data. please try again later."
		default:
			return "❌ " + f.Msg
		}
	}
	return "❌ something went wrong. please try again later."
}
