// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build uctest_failfast

package uctest

// FailFast is the build time fail-fast policy, enabled by the uctest_failfast tag
const FailFast = true
