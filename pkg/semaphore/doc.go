// Package semaphore is a client for the Semaphore SMS API.
//
// A Client holds an API key, a default sender name and a base URL. Each
// method issues exactly one HTTP request and returns the response body
// untouched; decoding the JSON payload is left to the caller.
//
//	client, err := semaphore.New(apiKey, semaphore.WithSenderName("ACME"))
//	if err != nil {
//		return err
//	}
//	body, err := client.Send(ctx, "09171234567,09181234567", "hello")
//
// The only error detected locally is ErrTooManyRecipients. Everything else
// comes from the transport and is returned unchanged; the default resty
// transport reports non-2xx responses as *httpclient.StatusError.
package semaphore
