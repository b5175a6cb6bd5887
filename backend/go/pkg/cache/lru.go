// Package cache 提供一个线程安全的泛型 LRU 缓存。
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// Config 配置 LRU 缓存。
type Config struct {
	// Capacity 是缓存的最大元素数量，必须大于 0。
	Capacity int
	// TTL 是元素的存活时间。为 0 时元素永不过期。
	TTL time.Duration
}

type entry[K comparable, V any] struct {
	key        K
	value      V
	expiration time.Time
}

// LRU 是按最近使用淘汰的缓存。
type LRU[K comparable, V any] struct {
	config Config
	ll     *list.List
	items  map[K]*list.Element
	now    func() time.Time
	lock   sync.Mutex
}

// New 创建 LRU 缓存。
func New[K comparable, V any](config Config) (*LRU[K, V], error) {
	if config.Capacity <= 0 {
		return nil, fmt.Errorf("缓存容量必须大于 0，当前为 %d", config.Capacity)
	}
	return &LRU[K, V]{
		config: config,
		ll:     list.New(),
		items:  make(map[K]*list.Element),
		now:    time.Now,
	}, nil
}

// Get 返回 key 对应的值，并标记为最近使用。过期的元素会被移除。
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var zero V
	element, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := element.Value.(*entry[K, V])
	if c.config.TTL > 0 && c.now().After(e.expiration) {
		c.remove(element)
		return zero, false
	}
	c.ll.MoveToFront(element)
	return e.value, true
}

// Put 添加或更新 key，超出容量时淘汰最久未使用的元素。
func (c *LRU[K, V]) Put(key K, value V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var expiration time.Time
	if c.config.TTL > 0 {
		expiration = c.now().Add(c.config.TTL)
	}

	if element, ok := c.items[key]; ok {
		e := element.Value.(*entry[K, V])
		e.value = value
		e.expiration = expiration
		c.ll.MoveToFront(element)
		return
	}

	c.items[key] = c.ll.PushFront(&entry[K, V]{key: key, value: value, expiration: expiration})
	for c.ll.Len() > c.config.Capacity {
		c.remove(c.ll.Back())
	}
}

// 调用方需持有锁。
func (c *LRU[K, V]) remove(element *list.Element) {
	c.ll.Remove(element)
	delete(c.items, element.Value.(*entry[K, V]).key)
}

// Len 返回当前缓存中的元素数量。
func (c *LRU[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.ll.Len()
}
