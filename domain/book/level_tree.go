package book

// levelTree is a red-black tree of price levels keyed by price.
// It backs BookSide: bids read their best level from the maximum key,
// asks from the minimum.

type treeColor uint8

const (
	red   treeColor = 0
	black treeColor = 1
)

type treeNode struct {
	key    int64
	level  *PriceLevel
	color  treeColor
	left   *treeNode
	right  *treeNode
	parent *treeNode
}

type levelTree struct {
	root *treeNode
	sent *treeNode // black sentinel
	size int
}

func newLevelTree() *levelTree {
	s := &treeNode{color: black}
	return &levelTree{root: s, sent: s}
}

func (t *levelTree) len() int { return t.size }

func (t *levelTree) find(price int64) *PriceLevel {
	n := t.root
	for n != t.sent {
		switch {
		case price < n.key:
			n = n.left
		case price > n.key:
			n = n.right
		default:
			return n.level
		}
	}
	return nil
}

// attach inserts an existing level into the tree. The price must not
// already be present; callers re-inserting after TakeBest guarantee
// this, since TakeBest removed the only node with that key.
func (t *levelTree) attach(lvl *PriceLevel) {
	y := t.sent
	x := t.root
	for x != t.sent {
		y = x
		if lvl.Price < x.key {
			x = x.left
		} else if lvl.Price > x.key {
			x = x.right
		} else {
			panic("book: duplicate price level")
		}
	}

	z := &treeNode{
		key:    lvl.Price,
		level:  lvl,
		color:  red,
		left:   t.sent,
		right:  t.sent,
		parent: y,
	}
	if y == t.sent {
		t.root = z
	} else if z.key < y.key {
		y.left = z
	} else {
		y.right = z
	}
	t.insertFixup(z)
	t.size++
}

// getOrCreate returns the level at price, creating an empty one if absent.
func (t *levelTree) getOrCreate(price int64) *PriceLevel {
	if lvl := t.find(price); lvl != nil {
		return lvl
	}
	lvl := &PriceLevel{Price: price}
	t.attach(lvl)
	return lvl
}

func (t *levelTree) min() *PriceLevel {
	n := t.minNode(t.root)
	if n == t.sent {
		return nil
	}
	return n.level
}

func (t *levelTree) max() *PriceLevel {
	n := t.maxNode(t.root)
	if n == t.sent {
		return nil
	}
	return n.level
}

// takeMin removes and returns the lowest-priced level, nil when empty.
func (t *levelTree) takeMin() *PriceLevel {
	n := t.minNode(t.root)
	if n == t.sent {
		return nil
	}
	t.deleteNode(n)
	t.size--
	return n.level
}

// takeMax removes and returns the highest-priced level, nil when empty.
func (t *levelTree) takeMax() *PriceLevel {
	n := t.maxNode(t.root)
	if n == t.sent {
		return nil
	}
	t.deleteNode(n)
	t.size--
	return n.level
}

func (t *levelTree) ascend(fn func(*PriceLevel) bool) {
	for n := t.minNode(t.root); n != t.sent; n = t.next(n) {
		if !fn(n.level) {
			return
		}
	}
}

func (t *levelTree) descend(fn func(*PriceLevel) bool) {
	for n := t.maxNode(t.root); n != t.sent; n = t.prev(n) {
		if !fn(n.level) {
			return
		}
	}
}

/******************** internal helpers ********************/

func (t *levelTree) minNode(n *treeNode) *treeNode {
	if n == t.sent {
		return t.sent
	}
	for n.left != t.sent {
		n = n.left
	}
	return n
}

func (t *levelTree) maxNode(n *treeNode) *treeNode {
	if n == t.sent {
		return t.sent
	}
	for n.right != t.sent {
		n = n.right
	}
	return n
}

func (t *levelTree) next(n *treeNode) *treeNode {
	if n.right != t.sent {
		return t.minNode(n.right)
	}
	p := n.parent
	for p != t.sent && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

func (t *levelTree) prev(n *treeNode) *treeNode {
	if n.left != t.sent {
		return t.maxNode(n.left)
	}
	p := n.parent
	for p != t.sent && n == p.left {
		n = p
		p = p.parent
	}
	return p
}

func (t *levelTree) leftRotate(x *treeNode) {
	y := x.right
	x.right = y.left
	if y.left != t.sent {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.sent {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *levelTree) rightRotate(y *treeNode) {
	x := y.left
	y.left = x.right
	if x.right != t.sent {
		x.right.parent = y
	}
	x.parent = y.parent
	if y.parent == t.sent {
		t.root = x
	} else if y == y.parent.right {
		y.parent.right = x
	} else {
		y.parent.left = x
	}
	x.right = y
	y.parent = x
}

func (t *levelTree) insertFixup(z *treeNode) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.leftRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rightRotate(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rightRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.leftRotate(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

func (t *levelTree) transplant(u, v *treeNode) {
	if u.parent == t.sent {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *levelTree) deleteNode(z *treeNode) {
	y := z
	yOrigColor := y.color
	var x *treeNode

	if z.left == t.sent {
		x = z.right
		t.transplant(z, z.right)
	} else if z.right == t.sent {
		x = z.left
		t.transplant(z, z.left)
	} else {
		y = t.minNode(z.right)
		yOrigColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOrigColor == black {
		t.deleteFixup(x)
	}
}

func (t *levelTree) deleteFixup(x *treeNode) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.leftRotate(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					t.rightRotate(w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				t.leftRotate(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rightRotate(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					t.leftRotate(x.parent)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				t.rightRotate(x.parent)
				x = t.root
			}
		}
	}
	x.color = black
}
