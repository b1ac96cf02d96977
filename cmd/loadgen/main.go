// Command loadgen posts randomized product records to a running instance of
// the products API and reports how many were accepted.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var (
	flagTarget      = flag.String("target", "http://localhost:8000", "Base URL of the products API")
	flagCount       = flag.Int("count", 50, "Total number of products to create")
	flagConcurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
)

var (
	successCount int64
	failureCount int64

	statusMu       sync.Mutex
	statusCountMap = map[int]int64{}
)

var (
	productTypes = []string{"Electronics", "Clothing", "Books", "Home", "Sports"}
	adjectives   = []string{"Premium", "Deluxe", "Basic", "Pro", "Ultra"}
	nouns        = []string{
		"Falcon", "River", "Summit", "Cobalt", "Harbor",
		"Meadow", "Orbit", "Pioneer", "Quartz", "Zephyr",
	}
)

type productRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func recordStatus(code int) {
	statusMu.Lock()
	statusCountMap[code]++
	statusMu.Unlock()
}

// generateProduct builds a randomized product. Prices span $9.99 to $999.99,
// stored in cents.
func generateProduct(rng *rand.Rand) productRequest {
	name := fmt.Sprintf("%s %s %s",
		adjectives[rng.Intn(len(adjectives))],
		nouns[rng.Intn(len(nouns))],
		productTypes[rng.Intn(len(productTypes))],
	)
	return productRequest{
		Name:  name,
		Price: int64(rng.Intn(99999-999+1) + 999),
	}
}

func newHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	return &http.Client{
		Timeout:   5 * time.Second,
		Transport: transport,
	}
}

func createProduct(client *http.Client, target string, product productRequest) bool {
	body, err := json.Marshal(product)
	if err != nil {
		return false
	}

	resp, err := client.Post(target+"/products", "application/json", bytes.NewReader(body))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	recordStatus(resp.StatusCode)
	return resp.StatusCode == http.StatusCreated
}

func main() {
	flag.Parse()

	if *flagCount <= 0 || *flagConcurrency <= 0 {
		fmt.Fprintln(os.Stderr, "count and concurrency must be positive")
		os.Exit(1)
	}

	fmt.Printf("Creating %d products against %s with %d workers...\n",
		*flagCount, *flagTarget, *flagConcurrency)

	client := newHTTPClient()
	jobs := make(chan struct{})
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < *flagConcurrency; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for range jobs {
				if createProduct(client, *flagTarget, generateProduct(rng)) {
					atomic.AddInt64(&successCount, 1)
				} else {
					atomic.AddInt64(&failureCount, 1)
				}
			}
		}(time.Now().UnixNano() + int64(w))
	}

	for i := 0; i < *flagCount; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Printf("\nCreated %d/%d products in %.2fs (%d failed)\n",
		atomic.LoadInt64(&successCount), *flagCount,
		elapsed.Seconds(), atomic.LoadInt64(&failureCount))

	statusMu.Lock()
	codes := make([]int, 0, len(statusCountMap))
	for code := range statusCountMap {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Printf("  HTTP %d: %d\n", code, statusCountMap[code])
	}
	statusMu.Unlock()

	if atomic.LoadInt64(&failureCount) > 0 {
		os.Exit(1)
	}
}
