// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"context"
	"errors"
	"os/exec"
)

func dockerUserGroup(_ context.Context) ([]string, error) {
	return nil, nil
}

func dockerInteractive(_ *exec.Cmd) error {
	return errors.New("interactive docker shell not supported on windows")
}
