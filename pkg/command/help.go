// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package command

import (
	"fmt"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
)

const helpFormat = "\r\n" +
	"%s (%s) command list\r\n" +
	"    FS20 addr cmd     Send a FS20 command where\r\n" +
	"                        addr FS20 address using the format ggss (1111-4444)\r\n" +
	"                        cmd  Command ON|OFF|TOGGLE|UP|+|DOWN|-|<dim>\r\n" +
	"                             where <dim> is the dim level\r\n" +
	"                             * absolute values:   0 (min=off) to 16 (max)\r\n" +
	"                             * percentage values: 0%% to 100%%\r\n" +
	"    UNIROLL addr cmd  Send an Uniroll command where\r\n" +
	"                        addr Uniroll jalousie number (1-16)\r\n" +
	"                        cmd  Command UP|+|DOWN|-|STOP\r\n" +
	"    IT code addr cmd  Send an InterTechno command where\r\n" +
	"                        code InterTechno housecode (A-P)\r\n" +
	"                        addr InterTechno channel (1-16)\r\n" +
	"                        cmd  Command ON|OFF|TOGGLE\r\n" +
	"    SCENE scn         Activate scene <scn> (1-254)\r\n" +
	"    GET CLOCK         Get the current device date and time\r\n" +
	"    GET TEMP          Get the current device temperature sensor\r\n" +
	"    SET CLOCK [time]  Set the device clock to system time or to <time>\r\n" +
	"                      where time format is %s\r\n" +
	"    WAIT ms           Wait for <ms> milliseconds\r\n" +
	"    QUIT              Disconnect\r\n" +
	"    EXIT              Disconnect and exit server program\r\n"

// HelpText returns the command reference
func HelpText() string {
	return fmt.Sprintf(helpFormat, lightmanager.ProgName, lightmanager.Version, lightmanager.ClockFormatHelp)
}
