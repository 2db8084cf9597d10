// Package resilience provides retry helpers for fault-tolerant calls.
//
//	resp, err := resilience.Retry(ctx, resilience.Once(isTransient), func(attempt int) (*Resp, error) {
//	    return transport.Send(ctx, req)
//	})
package resilience
