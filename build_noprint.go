// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build uctest_noprint

package uctest

// PrintfEnabled is false when built with the uctest_noprint tag, all emission compiles out
const PrintfEnabled = false
