package url

import (
	"context"
	"sync"
)

// The package-level verb functions share one process-wide Client. It is
// initialized exactly once, on first use; construction cannot fail since
// the default options carry no proxy.
var (
	defaultOnce   sync.Once
	defaultClient *Client
)

func getDefaultClient() *Client {
	defaultOnce.Do(func() {
		c, err := NewClient(ClientOptions{})
		if err != nil {
			panic("url: initializing default client: " + err.Error())
		}
		defaultClient = c
	})
	return defaultClient
}

// Get performs a GET request with the default client.
func Get(target string, headers ...string) Response {
	return getDefaultClient().Get(context.Background(), target, Header(headers))
}

// Head performs a HEAD request with the default client.
func Head(target string, headers ...string) Response {
	return getDefaultClient().Head(context.Background(), target, Header(headers))
}

// Post performs a POST request with a raw body payload, using the default
// client.
func Post(target string, body []byte, headers ...string) Response {
	return getDefaultClient().Post(context.Background(), target, body, Header(headers))
}

// PostForm performs a POST request sending the form as multipart/form-data,
// using the default client.
func PostForm(target string, form Form, headers ...string) Response {
	return getDefaultClient().PostForm(context.Background(), target, form, Header(headers))
}

// Put performs a PUT request with a raw body payload, using the default
// client.
func Put(target string, body []byte, headers ...string) Response {
	return getDefaultClient().Put(context.Background(), target, body, Header(headers))
}

// Patch performs a PATCH request with a raw body payload, using the
// default client.
func Patch(target string, body []byte, headers ...string) Response {
	return getDefaultClient().Patch(context.Background(), target, body, Header(headers))
}

// Delete performs a DELETE request with an optional raw body payload,
// using the default client.
func Delete(target string, body []byte, headers ...string) Response {
	return getDefaultClient().Delete(context.Background(), target, body, Header(headers))
}
