package app

import "context"

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

type Notice struct {
	Level   NoticeLevel
	Message string
}

// NoopNotifier drops every notice.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Notice) {}

// StaticAuth is an AuthStatus with a fixed answer, for guest-only runs and tests.
type StaticAuth struct {
	Authenticated bool
}

func (a StaticAuth) IsInitialized() bool { return true }
func (a StaticAuth) IsAuthenticated() bool { return a.Authenticated }
func (a StaticAuth) WaitInitialized(context.Context) error { return nil }
func (a StaticAuth) Subscribe(func(bool)) func() { return func() {} }
