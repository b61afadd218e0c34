// This file defines the sentinel errors shared across provider
// implementations.

package providers

import "errors"

// ErrNeedLogin is returned by read operations that require an
// authenticated user. Write operations express the same condition as
// models.OutcomeNeedLogin instead.
var ErrNeedLogin = errors.New("providers: authentication required")
