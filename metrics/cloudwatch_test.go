// file: metrics/cloudwatch_test.go
package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	cloudwatchiface.CloudWatchAPI
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(in *cloudwatch.PutMetricDataInput) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func (f *fakeCloudWatch) calls() []*cloudwatch.PutMetricDataInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*cloudwatch.PutMetricDataInput(nil), f.inputs...)
}

func TestCloudWatchIncCounter(t *testing.T) {
	fake := &fakeCloudWatch{}
	rec := NewCloudWatch(fake, "")
	rec.IncCounter("MatchesCreated")

	require.Eventually(t, func() bool { return len(fake.calls()) == 1 }, time.Second, 5*time.Millisecond)
	in := fake.calls()[0]
	assert.Equal(t, DefaultNamespace, aws.StringValue(in.Namespace))
	datum := in.MetricData[0]
	assert.Equal(t, "MatchesCreated", aws.StringValue(datum.MetricName))
	assert.Equal(t, 1.0, aws.Float64Value(datum.Value))
	assert.Empty(t, datum.Dimensions)
}

func TestCloudWatchSetGauge(t *testing.T) {
	fake := &fakeCloudWatch{}
	rec := NewCloudWatch(fake, "Test")
	rec.SetGauge("LiveViewers", 3, "match:abc")

	require.Eventually(t, func() bool { return len(fake.calls()) == 1 }, time.Second, 5*time.Millisecond)
	datum := fake.calls()[0].MetricData[0]
	assert.Equal(t, 3.0, aws.Float64Value(datum.Value))
	require.Len(t, datum.Dimensions, 1)
	assert.Equal(t, "Topic", aws.StringValue(datum.Dimensions[0].Name))
	assert.Equal(t, "match:abc", aws.StringValue(datum.Dimensions[0].Value))
}

func TestCloudWatchErrorIsSwallowed(t *testing.T) {
	fake := &fakeCloudWatch{err: errors.New("throttled")}
	rec := NewCloudWatch(fake, "Test")
	assert.NotPanics(t, func() { rec.IncCounter("ScoreChanges") })
	require.Eventually(t, func() bool { return len(fake.calls()) == 1 }, time.Second, 5*time.Millisecond)
}
