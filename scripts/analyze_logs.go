package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors      int
	OrdersPlaced     int
	CheckoutReplays  int
	OrdersPaid       int
	PaymentFailures  int
	BadSignatures    int
	CouponsRejected  int
	CouponsDropped   int
	CartsMerged      int
	Requests         int
	ServerErrors     int
	RejectReasons    map[string]int
	DroppedCoupons   map[string]int
	ErrorPatterns    map[string]int
	SlowestEndpoints map[string]time.Duration
}

// logLine is the subset of the zap JSON encoding the report reads
type logLine struct {
	Msg      string  `json:"msg"`
	Path     string  `json:"path"`
	Status   int     `json:"status"`
	Duration float64 `json:"duration"`
}

var (
	couponRejected = regexp.MustCompile(`^Coupon (\S+) rejected for \S+: (\S+)`)
	couponDropped  = regexp.MustCompile(`^Coupon (\S+) removed from cart`)
	orderPlaced    = regexp.MustCompile(`^Order \S+ placed by \S+: total \d+, discount \d+`)
)

func main() {
	day := flag.String("date", time.Now().Format("2006-01-02"), "log date (YYYY-MM-DD)")
	logDir := flag.String("dir", "./logs", "log directory")
	flag.Parse()

	stats := &LogStats{
		RejectReasons:    make(map[string]int),
		DroppedCoupons:   make(map[string]int),
		ErrorPatterns:    make(map[string]int),
		SlowestEndpoints: make(map[string]time.Duration),
	}

	analyzeErrorLogs(filepath.Join(*logDir, fmt.Sprintf("error-%s.log", *day)), stats)
	analyzeInfoLogs(filepath.Join(*logDir, fmt.Sprintf("info-%s.log", *day)), stats)

	printReport(stats)
}

func scanLines(logFile string, fn func(logLine)) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line logLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		fn(line)
	}
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	scanLines(logFile, func(line logLine) {
		stats.TotalErrors++

		switch {
		case strings.HasPrefix(line.Msg, "Payment gateway failed"):
			stats.PaymentFailures++
		case strings.HasPrefix(line.Msg, "Invalid payment signature"):
			stats.BadSignatures++
		}

		extractErrorPattern(line.Msg, stats)
	})
}

func analyzeInfoLogs(logFile string, stats *LogStats) {
	scanLines(logFile, func(line logLine) {
		if line.Msg == "Request" {
			stats.Requests++
			if line.Status >= 500 {
				stats.ServerErrors++
			}
			d := time.Duration(line.Duration * float64(time.Second))
			if d > stats.SlowestEndpoints[line.Path] {
				stats.SlowestEndpoints[line.Path] = d
			}
			return
		}

		if orderPlaced.MatchString(line.Msg) {
			stats.OrdersPlaced++
			return
		}
		if m := couponRejected.FindStringSubmatch(line.Msg); m != nil {
			stats.CouponsRejected++
			stats.RejectReasons[m[2]]++
			return
		}
		if m := couponDropped.FindStringSubmatch(line.Msg); m != nil {
			stats.CouponsDropped++
			stats.DroppedCoupons[m[1]]++
			return
		}

		switch {
		case strings.HasPrefix(line.Msg, "Checkout replayed"):
			stats.CheckoutReplays++
		case strings.HasPrefix(line.Msg, "Merged cart"):
			stats.CartsMerged++
		case strings.HasPrefix(line.Msg, "Order ") && strings.Contains(line.Msg, " paid via "):
			stats.OrdersPaid++
		}
	})
}

func extractErrorPattern(msg string, stats *LogStats) {
	// Keep the message up to the first colon so ids don't split the buckets
	if i := strings.Index(msg, ":"); i > 0 {
		msg = msg[:i]
	}
	stats.ErrorPatterns[strings.TrimSpace(msg)]++
}

func printReport(stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Checkout Statistics:")
	fmt.Printf("   Orders Placed: %d\n", stats.OrdersPlaced)
	fmt.Printf("   Idempotent Replays: %d\n", stats.CheckoutReplays)
	fmt.Printf("   Orders Paid Online: %d\n", stats.OrdersPaid)
	fmt.Printf("   Payment Gateway Failures: %d\n", stats.PaymentFailures)
	fmt.Printf("   Invalid Payment Signatures: %d\n", stats.BadSignatures)

	fmt.Println("\n2. Cart & Coupon Statistics:")
	fmt.Printf("   Carts Merged: %d\n", stats.CartsMerged)
	fmt.Printf("   Coupons Rejected: %d\n", stats.CouponsRejected)
	fmt.Printf("   Coupons Auto-removed: %d\n", stats.CouponsDropped)
	printTop("Rejection reasons", stats.RejectReasons, 5)
	printTop("Auto-removed coupons", stats.DroppedCoupons, 5)

	fmt.Println("\n3. Request Statistics:")
	fmt.Printf("   Requests: %d\n", stats.Requests)
	fmt.Printf("   Server Errors: %d\n", stats.ServerErrors)
	printSlowest(stats.SlowestEndpoints, 5)

	fmt.Println("\n4. Error Statistics:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)
	printTop("Most common errors", stats.ErrorPatterns, 5)
}

func printTop(title string, counts map[string]int, limit int) {
	type entry struct {
		key   string
		count int
	}

	var list []entry
	for k, n := range counts {
		list = append(list, entry{k, n})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].count > list[j].count
	})

	fmt.Printf("   %s:\n", title)
	for i, e := range list {
		if i >= limit {
			break
		}
		fmt.Printf("     %s: %d\n", e.key, e.count)
	}
}

func printSlowest(durations map[string]time.Duration, limit int) {
	type entry struct {
		path string
		d    time.Duration
	}

	var list []entry
	for p, d := range durations {
		list = append(list, entry{p, d})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].d > list[j].d
	})

	fmt.Println("   Slowest endpoints:")
	for i, e := range list {
		if i >= limit {
			break
		}
		fmt.Printf("     %s: %s\n", e.path, e.d)
	}
}
