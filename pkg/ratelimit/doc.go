// Package ratelimit paces requests sent to the site.
//
// FixedDelay spaces consecutive calls by a constant gap and is what the
// paged search uses between pages. TokenBucket allows short bursts and
// refills after a period. Unlimited never blocks.
//
//	limiter := ratelimit.NewFixedDelay(2 * time.Second)
//	for page := range pages {
//	    if err := limiter.Wait(ctx); err != nil {
//	        return err
//	    }
//	    fetch(page)
//	}
package ratelimit
