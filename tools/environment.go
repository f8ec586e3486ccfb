// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"fmt"
	"strings"
)

// FindCmd looks for the value of a registered environment variable and
// splits it into a command line. If the variable is empty returns a default
// value.
func FindCmd(envVar string, defaultVal ...string) ([]string, error) {
	cmd := strings.TrimSpace(GetEnv(envVar))
	if cmd != "" {
		return strings.Fields(cmd), nil
	}
	if len(defaultVal) == 0 {
		return nil, fmt.Errorf("%s is not set", envVar)
	}
	return defaultVal, nil
}
