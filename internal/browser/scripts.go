package browser

// statePrelude installs the page-side registry that gives every element a
// stable numeric id for the life of the document.
const statePrelude = `
	const state = window.__credmask || (window.__credmask = (() => {
		const s = {
			token: Date.now().toString(36) + '-' + Math.random().toString(36).slice(2),
			nextId: 1,
			ids: new WeakMap(),
			byId: new Map(),
			queue: [],
			observer: null,
		};
		s.idOf = (node) => {
			let id = s.ids.get(node);
			if (!id) {
				id = s.nextId++;
				s.ids.set(node, id);
				s.byId.set(id, new WeakRef(node));
			}
			return id;
		};
		return s;
	})());
`

func snapshotScript() string {
	return `(() => {` + statePrelude + `
		const nodes = [];
		const measured = new Set(['INPUT', 'FORM']);

		const visit = (el, parentId, inShadow) => {
			const id = state.idOf(el);
			const entry = {
				id: id,
				parent: parentId,
				inShadow: inShadow,
				hasShadow: !!el.shadowRoot,
				nodeType: el.nodeType,
				nodeName: el.nodeName,
				attrs: Array.from(el.attributes || [], (a) => [a.name, a.value]),
				inputType: (el instanceof HTMLInputElement) ? el.type : null,
				disabled: !!el.disabled,
				readOnly: !!el.readOnly,
				size: (typeof el.size === 'number') ? el.size : 0,
				opacity: el.style ? el.style.opacity : '',
				color: el.style ? el.style.color : '',
				classes: Array.from(el.classList || []),
				form: (el.form instanceof HTMLFormElement) ? state.idOf(el.form) : 0,
				elements: (el instanceof HTMLFormElement) ? Array.from(el.elements, state.idOf) : null,
			};

			if (measured.has(el.nodeName)) {
				const rect = el.getBoundingClientRect();
				entry.rect = { x: rect.x, y: rect.y, width: rect.width, height: rect.height };
				entry.visibility = getComputedStyle(el).getPropertyValue('visibility');
			}

			nodes.push(entry);

			for (const child of el.children) {
				visit(child, id, false);
			}
			if (el.shadowRoot) {
				for (const child of el.shadowRoot.children) {
					visit(child, id, true);
				}
			}
		};

		const root = document.documentElement;
		const body = document.body || root;
		visit(root, 0, false);

		return JSON.stringify({
			url: location.href,
			token: state.token,
			extent: {
				width: Math.max(body.scrollWidth, body.offsetWidth, root.clientWidth),
				height: Math.max(body.scrollHeight, body.offsetHeight, root.clientHeight),
			},
			root: state.idOf(root),
			body: state.idOf(body),
			forms: Array.from(document.forms, state.idOf),
			nodes: nodes,
		});
	})()`
}

func applyMasksScript() string {
	return `(args) => {` + statePrelude + `
		let applied = 0;
		for (const id of args.ids) {
			const ref = state.byId.get(id);
			const el = ref && ref.deref();
			if (!el) {
				continue;
			}
			el.style.color = 'transparent';
			el.classList.add(args.className);
			applied++;
		}
		return applied;
	}`
}

func installObserverScript() string {
	return `(() => {` + statePrelude + `
		if (state.observer) {
			return false;
		}
		state.observer = new MutationObserver((records) => {
			for (const record of records) {
				for (const node of record.addedNodes) {
					state.queue.push({
						id: node.nodeType === Node.ELEMENT_NODE ? state.idOf(node) : 0,
						nodeType: node.nodeType,
						nodeName: node.nodeName,
					});
				}
			}
		});
		state.observer.observe(document, { childList: true, subtree: true });
		return true;
	})()`
}

// drainMutationsScript creates the state on a fresh document so the new
// token tells Go the page has navigated.
func drainMutationsScript() string {
	return `(() => {` + statePrelude + `
		const queue = state.queue;
		state.queue = [];
		return JSON.stringify({ token: state.token, added: queue });
	})()`
}
