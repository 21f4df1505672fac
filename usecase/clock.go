package usecase

import "time"

// Clock supplies the current time. Production wiring passes SystemClock;
// tests pass a fixed or advancing fake to drive expiry without sleeping.
type Clock func() time.Time

var SystemClock Clock = time.Now
