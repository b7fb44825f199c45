/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package screener

import "fmt"

// TransportError is returned when the service answers with a non-2xx
// status. The service explains rejected queries in the body, so the body
// is part of the message.
type TransportError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %s\n Body: %s\n", e.URL, e.Status, e.Body)
}
