/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sessions

import (
	"github.com/google/uuid"

	"github.com/nspersist/nspersist/pkg/istorage"
	imetrics "github.com/nspersist/nspersist/pkg/metrics"
	"github.com/nspersist/nspersist/pkg/objcache"
	"github.com/nspersist/nspersist/pkg/pdata"
	"github.com/nspersist/nspersist/pkg/pdef"
)

type Params struct {
	// Must be finalised before the first Join
	Schema  pdef.ISchema
	Storage istorage.IPlayerStorage
	Enabled pdata.IEnabledSources

	// Private metrics are used if nil
	Metrics imetrics.IMetrics

	// Number of recently left players kept resolved. DefaultParkedSize if zero
	ParkedSize     int
	ParkedProvider objcache.CacheProvider
}

// Player data loaded and resolved for the duration of the player's stay.
// Data must be accessed between Manager.Acquire and Session.Release only
type Session struct {
	id         uuid.UUID
	player     string
	data       *pdata.Instance
	resets     []pdata.Reset
	generation uint64
	busy       bool
	mgr        *Manager
}

type parkedData struct {
	data       *pdata.Instance
	generation uint64
}
