// Package formats parses the text scene description format.
//
// A description is a list of records separated by ';'. Fields within a
// record are separated by ','. Lines starting with "//" are comments. The
// first field selects the record kind:
//
//	p  primitive   p,id,cube | p,id,sphere,stacks,sectors
//	m  material    m,id,ka(3)[,kd(3)[,ks(3)[,shininess[,texture]]]]
//	o  object      o,id,primitiveID,materialID
//	X  transform   X,objectID,S|T|Rx|Ry|Rz,x[,y[,z]]
//	l  light       l,id,point,x,y,z,r,g,b
//	c  camera      c,id,perspective,eye(3),target(3),up(3)
//
// Parsing only checks syntax. Reference resolution is left to the scene
// builder.
package formats
