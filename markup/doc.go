// Package markup builds visor entity trees from declarative XML or YAML.
//
// A document is a tree of elements. The tag of each element selects a
// constructor and its attributes are applied through named handlers, both
// looked up in a [Registry]:
//
//	<scene>
//	  <entity id="panel" position="0 0 -3" scale="2 1"
//	          geometry="primitive: plane; width: 1; height: 1"
//	          surface="renderer: solid; color: #3080ff"
//	          component="spin"/>
//	</scene>
//
// The same document in YAML uses single-key mappings for elements and a
// children sequence:
//
//	scene:
//	  children:
//	    - entity:
//	        id: panel
//	        position: 0 0 -3
//
// Unknown tags are skipped together with their subtree, unknown attributes
// are ignored, and malformed attribute values are logged and skipped.
package markup
