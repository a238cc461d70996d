package pages

import (
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/errs"
)

// Counter drives the standalone counter widget by its test ids.
type Counter struct {
	Page  playwright.Page
	Count playwright.Locator
	Inc   playwright.Locator
	Dec   playwright.Locator

	asserts playwright.PlaywrightAssertions
}

func NewCounter(page playwright.Page) *Counter {
	return &Counter{
		Page:    page,
		Count:   page.GetByTestId("count"),
		Inc:     page.GetByTestId("inc"),
		Dec:     page.GetByTestId("dec"),
		asserts: playwright.NewPlaywrightAssertions(float64((5 * time.Second).Milliseconds())),
	}
}

func (c *Counter) Increment() error {
	if err := c.Inc.Click(); err != nil {
		return errs.FromPlaywright(errs.NotFound, "click increment", err)
	}
	return nil
}

func (c *Counter) Decrement() error {
	if err := c.Dec.Click(); err != nil {
		return errs.FromPlaywright(errs.NotFound, "click decrement", err)
	}
	return nil
}

// GetCount reads the displayed value. An empty display reads as 0.
func (c *Counter) GetCount() (int, error) {
	text, err := c.Count.TextContent()
	if err != nil {
		return 0, errs.FromPlaywright(errs.NotFound, "read count", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, errs.Wrap(errs.InvalidArgument, "count is not a number: "+text, err)
	}
	return n, nil
}

func (c *Counter) IncrementBy(times int) error {
	for i := 0; i < times; i++ {
		if err := c.Increment(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Counter) DecrementBy(times int) error {
	for i := 0; i < times; i++ {
		if err := c.Decrement(); err != nil {
			return err
		}
	}
	return nil
}

// SetCount clicks up or down until the display reads target.
func (c *Counter) SetCount(target int) error {
	current, err := c.GetCount()
	if err != nil {
		return err
	}
	switch diff := target - current; {
	case diff > 0:
		return c.IncrementBy(diff)
	case diff < 0:
		return c.DecrementBy(-diff)
	}
	return nil
}

// WaitForCount waits until the display reads expected.
func (c *Counter) WaitForCount(expected int) error {
	if err := c.asserts.Locator(c.Count).ToHaveText(strconv.Itoa(expected)); err != nil {
		return errs.FromPlaywright(errs.Timeout, "wait for count "+strconv.Itoa(expected), err)
	}
	return nil
}
