// File: metrics/cloudwatch.go
package metrics

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"kabaddi-scoreboard/logger"
)

// DefaultNamespace is used when no namespace is configured.
const DefaultNamespace = "KabaddiScoreboard"

// CloudWatch sends each reading to CloudWatch with PutMetricData.
// Calls never block the caller; failures are logged.
type CloudWatch struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
	now       func() time.Time
}

// NewCloudWatch builds a recorder around client.
func NewCloudWatch(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatch {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CloudWatch{client: client, namespace: namespace, now: time.Now}
}

// NewCloudWatchFromEnv uses the default AWS credential chain and region.
func NewCloudWatchFromEnv(namespace string) (*CloudWatch, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}
	return NewCloudWatch(cloudwatch.New(sess), namespace), nil
}

func (c *CloudWatch) IncCounter(name string) {
	c.send(name, 1, cloudwatch.StandardUnitCount, nil)
}

func (c *CloudWatch) SetGauge(name string, value float64, topic string) {
	c.send(name, value, cloudwatch.StandardUnitCount, []*cloudwatch.Dimension{
		{Name: aws.String("Topic"), Value: aws.String(topic)},
	})
}

func (c *CloudWatch) send(name string, value float64, unit string, dims []*cloudwatch.Dimension) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(name),
				Dimensions: dims,
				Timestamp:  aws.Time(c.now()),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
			},
		},
	}
	go func() {
		if _, err := c.client.PutMetricData(input); err != nil {
			logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", name, err)
		}
	}()
}
