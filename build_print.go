// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build !uctest_noprint

package uctest

// PrintfEnabled is true unless built with the uctest_noprint tag
const PrintfEnabled = true
