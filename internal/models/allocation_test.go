package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(h, m int) *TimeOfDay {
	t := NewTimeOfDay(h, m, 0)
	return &t
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func instance(serviceID string, start, end *TimeOfDay, active *bool) ScheduledInstance {
	return ScheduledInstance{
		ServiceInstance: ServiceInstance{ServiceID: strPtr(serviceID), Day: Monday, TimeStart: start, TimeEnd: end},
		ScheduleActive:  active,
	}
}

func TestDuration(t *testing.T) {
	cases := []struct {
		name       string
		start, end *TimeOfDay
		want       int
	}{
		{"morning block", tod(9, 0), tod(9, 45), 45},
		{"afternoon folds both ends", tod(13, 0), tod(14, 30), 90},
		{"crossing noon folds end only", tod(11, 30), tod(12, 15), 675},
		{"reversed ends are absolute", tod(10, 0), tod(9, 30), 30},
		{"same time", tod(8, 0), tod(8, 0), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := ServiceInstance{TimeStart: tc.start, TimeEnd: tc.end}.Duration()
			require.NotNil(t, d)
			assert.Equal(t, tc.want, *d)
		})
	}
}

func TestDurationRoundsSeconds(t *testing.T) {
	start := NewTimeOfDay(9, 0, 0)
	end := NewTimeOfDay(9, 10, 31)
	d := ServiceInstance{TimeStart: &start, TimeEnd: &end}.Duration()
	require.NotNil(t, d)
	assert.Equal(t, 11, *d)
}

func TestDurationNilWhenEndpointMissing(t *testing.T) {
	assert.Nil(t, ServiceInstance{TimeStart: tod(9, 0)}.Duration())
	assert.Nil(t, ServiceInstance{TimeEnd: tod(9, 0)}.Duration())
	assert.Nil(t, ServiceInstance{}.Duration())
}

func TestIsSatisfiedCountsOnlyActiveSchedules(t *testing.T) {
	svc := Service{ID: "svc", TotalTimeReq: 60}
	instances := []ScheduledInstance{
		instance("svc", tod(9, 0), tod(9, 30), boolPtr(true)),
		instance("svc", tod(10, 0), tod(10, 30), boolPtr(false)),
		instance("svc", tod(11, 0), tod(11, 30), nil),
		instance("svc", nil, tod(11, 30), boolPtr(true)),
	}

	assert.Equal(t, 30, SatisfiedMinutes(instances))
	assert.False(t, IsSatisfied(svc, instances))

	instances[1].ScheduleActive = boolPtr(true)
	assert.Equal(t, 60, SatisfiedMinutes(instances))
	assert.True(t, IsSatisfied(svc, instances))

	instances[0].ScheduleActive = boolPtr(false)
	assert.False(t, IsSatisfied(svc, instances))
}

func TestIsSatisfiedZeroRequirement(t *testing.T) {
	assert.True(t, IsSatisfied(Service{TotalTimeReq: 0}, nil))
}

func TestIsServiced(t *testing.T) {
	assert.True(t, IsServiced(nil))

	met := ServiceAllocation{
		Service:   Service{ID: "a", TotalTimeReq: 45},
		Instances: []ScheduledInstance{instance("a", tod(9, 0), tod(9, 45), boolPtr(true))},
	}
	unmet := ServiceAllocation{Service: Service{ID: "b", TotalTimeReq: 30}}

	assert.True(t, IsServiced([]ServiceAllocation{met}))
	assert.False(t, IsServiced([]ServiceAllocation{met, unmet}))
}

func TestGroupAllocations(t *testing.T) {
	services := []Service{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	instances := []ScheduledInstance{
		instance("b", tod(9, 0), tod(9, 30), boolPtr(true)),
		instance("a", tod(10, 0), tod(10, 30), boolPtr(true)),
		instance("b", tod(11, 0), tod(11, 30), boolPtr(true)),
		{ServiceInstance: ServiceInstance{Day: Friday}},
	}

	allocations := GroupAllocations(services, instances)
	require.Len(t, allocations, 3)
	assert.Equal(t, "a", allocations[0].Service.ID)
	assert.Len(t, allocations[0].Instances, 1)
	assert.Len(t, allocations[1].Instances, 2)
	assert.Equal(t, *tod(9, 0), *allocations[1].Instances[0].TimeStart)
	assert.Empty(t, allocations[2].Instances)
}

func TestNewServiceDetail(t *testing.T) {
	a := ServiceAllocation{
		Service:   Service{ID: "a", TotalTimeReq: 90},
		Instances: []ScheduledInstance{instance("a", tod(13, 0), tod(14, 30), boolPtr(true))},
	}
	detail := NewServiceDetail(a, false)
	assert.Equal(t, 90, detail.ScheduledMinutes)
	assert.True(t, detail.IsSatisfied)
	assert.Nil(t, detail.Instances)
	assert.Len(t, NewServiceDetail(a, true).Instances, 1)
}
