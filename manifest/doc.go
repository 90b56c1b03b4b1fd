// Package manifest loads service declaration manifests.
//
// A manifest is a YAML file listing the annotated declarations of one
// module: the implementation types, the interfaces they implement, their
// constructor parameters, and the export arguments (contract filter,
// lifetime, service id). Loading a manifest yields the raw declarations the
// descriptor package normalizes into service descriptors.
//
//	module: app
//	services:
//	  - type: postgres.UserStore
//	    implements: [app.UserStore]
//	    lifetime: singleton
//	    params:
//	      - type: app.Config
//	      - type: Deferred[app.Session]
//
// String fields may reference environment variables as ${VAR}; an optional
// .env file supplies them per deployment.
package manifest
