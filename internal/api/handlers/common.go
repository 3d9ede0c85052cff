/**
 * @description
 * Shared handler constants.
 */

package handlers

import "time"

// requestTimeout bounds every bus request/response round trip made from an
// HTTP handler.
const requestTimeout = 3 * time.Second
