package sparse

import (
	"testing"
)

func TestEstimateSmootherFirstObservation(t *testing.T) {
	smoother := NewEstimateSmoother(1.0 / 25.0)
	if _, ok := smoother.Position(); ok {
		t.Errorf("Fresh smoother must not report position")
		return
	}
	err := smoother.Observe(NewPoint(120, 80))
	if err != nil {
		t.Error(err)
		return
	}
	position, ok := smoother.Position()
	if !ok {
		t.Errorf("Smoother must be active after first observation")
		return
	}
	if position != NewPoint(120, 80) {
		t.Errorf("Wrong initial position: %v", position)
	}
	smoother.Reset()
	if smoother.Active() {
		t.Errorf("Smoother must be inactive after reset")
	}
}

func TestEstimateSmootherFollowsTarget(t *testing.T) {
	smoother := NewEstimateSmoother(1.0 / 25.0)
	target := NewPoint(100, 100)
	err := smoother.Observe(NewPoint(90, 95))
	if err != nil {
		t.Error(err)
		return
	}
	for i := 0; i < 50; i++ {
		err = smoother.Observe(target)
		if err != nil {
			t.Error(err)
			return
		}
	}
	position, _ := smoother.Position()
	if euclideanDistance(position, target) > 2.0 {
		t.Errorf("Smoothed position %v is too far from target %v", position, target)
	}
}
