// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package lightmanager

import "time"

// DecodeClock builds a timestamp from a GET CLOCK response.
//
// Response layout: [sec, min, hour, mday, month, weekday, year-2000, 0].
// The fields are used as received. SET CLOCK writes them packed decimal,
// but the read path has never unpacked them and clients rely on the output.
// Out-of-range fields are normalized by time.Date.
func DecodeClock(resp Frame, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(
		2000+int(resp[6]),
		time.Month(resp[4]),
		int(resp[3]),
		int(resp[2]),
		int(resp[1]),
		int(resp[0]),
		0,
		loc,
	)
}

// DecodeTemperature returns the controller temperature in degrees Celsius.
// ok is false when the response does not carry a temperature.
func DecodeTemperature(resp Frame) (celsius float64, ok bool) {
	if resp[0] != TempResponse {
		return 0, false
	}
	return float64(resp[1]) / 2.0, true
}
