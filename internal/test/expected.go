// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package test contains helper functions for the package tests.
package test

import (
	"errors"
	"testing"
)

// ExpectSuccess tests argument v for a success condition suitable for its
// type:
//
//	bool  -> v == true
//	error -> v == nil
//
// A nil argument is a success.
func ExpectSuccess(t *testing.T, v interface{}, tags ...interface{}) bool {
	t.Helper()

	switch v := v.(type) {
	case nil:
		return true
	case bool:
		if !v {
			t.Errorf("%sexpected success (bool)", id(tags))
			return false
		}
	case error:
		t.Errorf("%sexpected success (error: %v)", id(tags), v)
		return false
	default:
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags), v)
		return false
	}

	return true
}

// ExpectFailure tests argument v for a failure condition suitable for its
// type:
//
//	bool  -> v == false
//	error -> v != nil
//
// A nil argument is not a failure.
func ExpectFailure(t *testing.T, v interface{}, tags ...interface{}) bool {
	t.Helper()

	switch v := v.(type) {
	case nil:
		t.Errorf("%sexpected failure (nil)", id(tags))
		return false
	case bool:
		if v {
			t.Errorf("%sexpected failure (bool)", id(tags))
			return false
		}
	case error:
	default:
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags), v)
		return false
	}

	return true
}

// ExpectError tests that err matches target in the errors.Is sense.
func ExpectError(t *testing.T, err error, target error, tags ...interface{}) bool {
	t.Helper()

	if !errors.Is(err, target) {
		t.Errorf("%sexpected error %q, got %v", id(tags), target, err)
		return false
	}

	return true
}
