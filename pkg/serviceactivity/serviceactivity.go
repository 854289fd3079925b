// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: This file defines the ServiceActivity type run by the
// gateway.

// Package serviceactivity provides the activities the gateway runs
// (signal handling, the http server, logging file polling and table
// purging). They are run together with async.RunGroup.
package serviceactivity

import (
	"github.com/getoutreach/ilslog/pkg/async"
)

// ServiceActivity is run until its context ends and closed once Run
// returned.
type ServiceActivity interface {
	async.Runner
	async.Closer
}
