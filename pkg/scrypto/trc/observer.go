// Copyright 2017 ETH Zurich
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trc

import "github.com/scionproto/scion-trc/pkg/log"

// EventKind is the kind of a verification event.
type EventKind int

const (
	// EventSignerChecked is emitted after the signature of a signer has been
	// checked.
	EventSignerChecked EventKind = iota
	// EventVerified is emitted once per verification with the verdict.
	EventVerified
)

func (k EventKind) String() string {
	switch k {
	case EventSignerChecked:
		return "signer_checked"
	case EventVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// Event describes the outcome of a verification step. Err is nil on success.
type Event struct {
	Kind   EventKind
	TRC    Key
	Signer string
	Err    error
}

// Observer is notified about verification events. Observers may be called
// from the goroutine running the verification only.
type Observer interface {
	Observe(Event)
}

// ObserverFunc wraps a function to implement Observer.
type ObserverFunc func(Event)

// Observe calls f.
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// Observers notifies all contained observers in order.
type Observers []Observer

// Observe notifies all observers.
func (o Observers) Observe(e Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(e)
		}
	}
}

// LogObserver logs verification events.
type LogObserver struct {
	Logger log.Logger
}

// Observe logs the event. Failed signer checks and rejected TRCs are logged on
// info level, everything else on debug level.
func (o LogObserver) Observe(e Event) {
	if o.Logger == nil {
		return
	}
	switch e.Kind {
	case EventSignerChecked:
		if e.Err != nil {
			o.Logger.Info("A signature could not be verified",
				"trc", e.TRC, "signer", e.Signer, "err", e.Err)
			return
		}
		o.Logger.Debug("Signature verified", "trc", e.TRC, "signer", e.Signer)
	case EventVerified:
		if e.Err != nil {
			o.Logger.Info("TRC rejected", "trc", e.TRC, "err", e.Err)
			return
		}
		o.Logger.Debug("TRC verified", "trc", e.TRC)
	}
}
