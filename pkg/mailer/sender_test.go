package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tpl "go-commerce-api/pkg/mailer/templates"
)

type capturePublisher struct {
	published []any
	err       error
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, body)
	return nil
}

func TestQueueSenderSendEnqueuesRenderedJob(t *testing.T) {
	pub := &capturePublisher{}
	q := NewQueueSender(pub)

	require.NoError(t, q.Send(context.Background(), "to@example.com", "Hi", "<b>hi</b>"))
	require.Len(t, pub.published, 1)

	job, ok := pub.published[0].(EmailJob)
	require.True(t, ok)
	assert.Equal(t, "to@example.com", job.To)
	assert.Equal(t, "Hi", job.Subject)
	assert.Equal(t, "<b>hi</b>", job.HTML)
	assert.Empty(t, job.Template)
	assert.Nil(t, job.Data)
}

func TestQueueSenderSendTemplateDefersRendering(t *testing.T) {
	pub := &capturePublisher{}
	q := NewQueueSender(pub)

	data := tpl.NewEmailData("Jane", "Shop")
	data.ResetLink = "https://shop.example/reset?token=abc"
	require.NoError(t, q.SendTemplate(context.Background(), "to@example.com", tpl.ForgotPassword, data))
	require.Len(t, pub.published, 1)

	job, ok := pub.published[0].(EmailJob)
	require.True(t, ok)
	assert.Equal(t, "to@example.com", job.To)
	assert.Equal(t, tpl.ForgotPassword, job.Template)
	assert.Empty(t, job.HTML)
	assert.Equal(t, "Jane", job.Data["Name"])
	assert.Equal(t, "Shop", job.Data["AppName"])
	assert.Equal(t, "https://shop.example/reset?token=abc", job.Data["ResetLink"])

	// the worker renders from the same map
	html, err := tpl.RenderHTML(job.Template, job.Data)
	require.NoError(t, err)
	assert.Contains(t, html, "Jane")
	assert.Contains(t, html, "https://shop.example/reset?token=abc")
}
