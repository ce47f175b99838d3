// Package offline provides the offline cache worker: a transport-level
// interceptor that keeps the application usable when the network is not.
//
// # Overview
//
// The Worker sits under the API client as an http.RoundTripper. The layers
// above never learn whether a response came from the network or from cache;
// a cache-served response looks exactly like a network response.
//
// Two independent, versioned cache stores back two policies:
//
//   - daylist-cache-<version>: static assets, populated at install time
//     from a fixed precache manifest, served cache-first.
//   - daylist-api-<version>: API responses, populated opportunistically
//     from successful GETs, served network-first.
//
// # Lifecycle
//
//	new → installing → waiting → activating → active
//
// Install precaches the static manifest and then skips the waiting phase,
// activating immediately. Activation enumerates every cache store under the
// root, deletes those carrying the daylist prefix but a stale version tag,
// and takes control of subsequent requests at once. Bumping the version
// string is the sole invalidation mechanism.
//
// # Request Policy
//
// Foreign-origin requests that are not API calls pass through untouched.
// API-path requests go network-first: on transport failure the worker
// serves a previously cached copy of that exact request, or synthesizes a
// 503 JSON error. Other same-origin requests go cache-first: a cached match
// wins, otherwise the network response is cached when successful; when the
// network itself fails, the cached root document stands in, else a plain
// 503 is synthesized. Once active, the worker never lets a transport error
// escape a handled request; the caller always receives a response.
//
// # Control Messages
//
// HandleMessage accepts SKIP_WAITING (activate a waiting worker now) and
// CLEAR_CACHE (delete every owned store, for manual cache-busting).
//
// # Push
//
// HandlePush and HandleNotificationClick mirror the push-notification hooks
// of the web incarnation. They are functional only if a push sender and a
// Notifier implementation exist; this system ships neither.
package offline
