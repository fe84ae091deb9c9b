// Package payment holds the full-tier access check. Verification is an
// external collaborator; the default implementation admits everyone until a
// real processor is wired in via bootstrap.
package payment

import "context"

type AllowAll struct{}

func NewAllowAll() AllowAll { return AllowAll{} }

func (AllowAll) VerifyFullAccess(context.Context) error { return nil }
