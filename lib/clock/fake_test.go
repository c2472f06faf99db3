// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNowAdvance(t *testing.T) {
	fake := Fake(testEpoch)
	if got := fake.Now(); !got.Equal(testEpoch) {
		t.Fatalf("Now() = %v, want %v", got, testEpoch)
	}
	fake.Advance(3 * time.Minute)
	want := testEpoch.Add(3 * time.Minute)
	if got := fake.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeAfterFiresAtDeadline(t *testing.T) {
	fake := Fake(testEpoch)
	ch := fake.After(10 * time.Second)

	fake.Advance(9 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired before its deadline")
	default:
	}

	fake.Advance(time.Second)
	select {
	case got := <-ch:
		want := testEpoch.Add(10 * time.Second)
		if !got.Equal(want) {
			t.Fatalf("After delivered %v, want %v", got, want)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeAfterNonPositiveFiresImmediately(t *testing.T) {
	fake := Fake(testEpoch)
	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeTickerFiresPerInterval(t *testing.T) {
	fake := Fake(testEpoch)
	ticker := fake.NewTicker(time.Minute)
	defer ticker.Stop()

	// An advance spanning multiple intervals fires once per interval,
	// but the 1-buffered channel drops overflow like time.Ticker.
	fake.Advance(3 * time.Minute)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire after the first interval")
	}

	fake.Advance(time.Minute)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire on a later interval")
	}
}

func TestFakeTickerStop(t *testing.T) {
	fake := Fake(testEpoch)
	ticker := fake.NewTicker(time.Minute)
	ticker.Stop()

	fake.Advance(5 * time.Minute)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFakeWaitForTimersSeesLateRegistration(t *testing.T) {
	fake := Fake(testEpoch)
	done := make(chan struct{})
	go func() {
		<-fake.After(5 * time.Second)
		close(done)
	}()

	fake.WaitForTimers(1)
	select {
	case <-done:
		t.Fatal("After fired before the clock advanced")
	default:
	}

	fake.Advance(5 * time.Second)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("After did not fire after Advance")
	}
}

func TestFakeAdvanceFiresInDeadlineOrder(t *testing.T) {
	fake := Fake(testEpoch)
	first := fake.After(time.Second)
	second := fake.After(2 * time.Second)

	fake.Advance(2 * time.Second)

	for name, ch := range map[string]<-chan time.Time{"first": first, "second": second} {
		select {
		case <-ch:
		default:
			t.Fatalf("%s waiter did not fire", name)
		}
	}
}
