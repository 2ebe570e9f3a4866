// Package harness runs scripted UI sessions against the real controller.
//
// A scenario seeds storage, starts a session with a fixed or unavailable
// position, replays a list of user events and checks the final state of
// storage, list, map and notifications.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	position: { lat: 51.5, lng: -0.09 }   # omit to simulate a denied sensor
//	stored:
//	  - id: s-1
//	    at: { lat: 51.51, lng: -0.1 }
//	    form: { kind: running, distance: "5", duration: "30", cadence: "170" }
//	steps:
//	  - click: { lat: 51.51, lng: -0.1 }
//	  - submit: { kind: cycling, distance: "20", duration: "60", elevation: "300" }
//	  - submit: { kind: running, distance: "0", duration: "30", cadence: "170" }
//	    expect: validation
//	  - select: s-1
//	  - delete: s-1
//	  - sort: true
//	assertions:
//	  - type: list_order
//	    ids: [w-1]
//	  - type: notice_contains
//	    message: "Inputs have to be positive numbers!"
//	    count: 1
//
// # Assertion Types
//
//   - list_order: rendered entry identities, in display order
//   - record_count: workouts held by the controller
//   - stored_count: workouts read back from storage
//   - marker_count: markers on the live map
//   - notice_contains: notices containing message (exactly count, if given)
//   - empty_state: whether the empty indicator is shown
//   - selected: the selected entry identity
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with fixed
// identities (w-1, w-2, ...), a fixed creation time and no delete delay,
// so traces are identical across runs and can be compared to golden files.
package harness
