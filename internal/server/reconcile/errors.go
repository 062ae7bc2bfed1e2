// Package reconcile keeps a device's or a user's view in the record store
// tied to the controller and the messaging platform. Every reconciler
// returns *common.Error values; upstream failures that are not expected
// absences become Internal.
package reconcile

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/httpx"
)

// alreadyClaimedRe matches the controller's claim refusal for a serial
// owned by another organization, e.g.
// "Device with serial Q2XX-XXXX-XXXX is already claimed and in L_123".
var alreadyClaimedRe = regexp.MustCompile(`(?i)^device with serial \S+ is already claimed`)

func isAlreadyClaimed(msg string) bool {
	return alreadyClaimedRe.MatchString(msg)
}

func isUpstreamNotFound(err error) bool {
	return httpx.StatusOf(err) == http.StatusNotFound
}

// upstream normalizes an upstream failure. Already classified errors pass
// through unchanged.
func upstream(err error) error {
	if err == nil {
		return nil
	}
	var e *common.Error
	if errors.As(err, &e) {
		return e
	}
	return common.Internal(err)
}
